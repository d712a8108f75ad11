package domain

// RemoteResult is one entry returned by the remote search endpoint.
type RemoteResult struct {
	// Text is the tag text. It doubles as the candidate id.
	Text string `json:"text"`

	// IsParent marks a broader canonical tag.
	IsParent bool `json:"isParent,omitempty"`

	// MatchedChild is the narrower tag whose text matched the query, when
	// the endpoint answered with its parent instead.
	MatchedChild string `json:"matchedChild,omitempty"`
}

// ParentLookupResult is the payload of the parent lookup endpoint.
type ParentLookupResult struct {
	ParentTag string `json:"parentTag"`
}

// PredictTicket identifies one debounced remote fetch.
// A ticket is stale once a newer one has been issued.
type PredictTicket struct {
	Seq   uint64
	Query string
}
