package services

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a tag into its URL slug: accents folded (Café -> cafe),
// lowercase, "&" and whitespace become "-", everything outside [a-z0-9-]
// is dropped, and runs of "-" collapse. Leading and trailing "-" are trimmed.
func Slugify(tag string) string {
	// transform.Chain keeps state, so build one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, tag)
	if err != nil {
		folded = tag
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastDash := true // suppresses a leading "-"
	for _, r := range folded {
		switch {
		case r == '&' || r == '-' || unicode.IsSpace(r):
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// componentUnescaper undoes url.QueryEscape for the characters
// encodeURIComponent leaves alone, and writes spaces as %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeQuery escapes a free-text query for use as a path segment,
// matching encodeURIComponent.
func EncodeQuery(query string) string {
	return componentUnescaper.Replace(url.QueryEscape(query))
}

// BuildSearchURL builds the site search URL for a set of tags and a
// free-text query:
//
//	tags and query  {origin}/search/{query}/tags/{a+b}
//	tags only       {origin}/search/tags/{a+b}
//	query only      {origin}/search/{query}
//	neither         {origin}/?s=
func BuildSearchURL(origin string, tags []string, query string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	query = strings.TrimSpace(query)

	slugs := make([]string, 0, len(tags))
	for _, tag := range tags {
		if s := Slugify(tag); s != "" {
			slugs = append(slugs, s)
		}
	}
	tagPath := strings.Join(slugs, "+")

	switch {
	case tagPath != "" && query != "":
		return origin + "/search/" + EncodeQuery(query) + "/tags/" + tagPath
	case tagPath != "":
		return origin + "/search/tags/" + tagPath
	case query != "":
		return origin + "/search/" + EncodeQuery(query)
	default:
		return origin + "/?s="
	}
}
