package domain

import "strings"

// CandidateOrigin records where a candidate entered the pool.
type CandidateOrigin string

const (
	// OriginCatalog marks candidates loaded from the fixed catalog at start-up.
	OriginCatalog CandidateOrigin = "catalog"

	// OriginRemote marks candidates merged in from the remote search endpoint.
	OriginRemote CandidateOrigin = "remote"
)

// TagCandidate is a selectable tag in the candidate pool.
type TagCandidate struct {
	// ID is the stable key, unique within the pool. Usually the display text.
	ID string `json:"id"`

	// DisplayText is the human-readable label.
	DisplayText string `json:"display_text"`

	// IsParent is set when the remote endpoint reported the tag as a parent tag.
	IsParent bool `json:"is_parent,omitempty"`

	// Origin records how the candidate entered the pool.
	Origin CandidateOrigin `json:"origin,omitempty"`
}

// NewTagCandidate creates a catalog candidate whose ID is its display text.
func NewTagCandidate(text string) TagCandidate {
	text = strings.TrimSpace(text)
	return TagCandidate{
		ID:          text,
		DisplayText: text,
		Origin:      OriginCatalog,
	}
}

// Label returns the display text, falling back to the ID.
func (c TagCandidate) Label() string {
	if c.DisplayText != "" {
		return c.DisplayText
	}
	return c.ID
}

// Key returns the case-folded identity used for uniqueness checks.
func (c TagCandidate) Key() string {
	return FoldKey(c.ID)
}

// FoldKey normalises a tag id or text for case-insensitive comparisons.
func FoldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SelectionEntry is an item in the selection set.
type SelectionEntry struct {
	// ID is the canonical id recorded in the selection.
	ID string `json:"id"`

	// DisplayText is what the UI shows for the chip.
	DisplayText string `json:"display_text"`

	// FreeText is true when no candidate backs the entry.
	FreeText bool `json:"free_text,omitempty"`

	// AliasOf holds the raw text the user picked when it was remapped
	// onto a parent tag. Empty when no remap happened.
	AliasOf string `json:"alias_of,omitempty"`
}

// OutcomeKind classifies the result of a selection attempt.
type OutcomeKind int

const (
	// OutcomeIgnored means the input was empty and nothing happened.
	OutcomeIgnored OutcomeKind = iota

	// OutcomeSelected means a new entry was appended to the selection.
	OutcomeSelected

	// OutcomeAlreadySelected means the resolved id was already selected.
	OutcomeAlreadySelected
)

// String returns the string representation of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeSelected:
		return "selected"
	case OutcomeAlreadySelected:
		return "already_selected"
	default:
		return "unknown"
	}
}

// SelectionOutcome is returned by a select operation.
type SelectionOutcome struct {
	Kind  OutcomeKind
	Entry SelectionEntry
}

// Inserted reports whether the selection grew.
func (o SelectionOutcome) Inserted() bool {
	return o.Kind == OutcomeSelected
}
