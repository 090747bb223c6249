package domain

// RawResult represents a single search hit as returned by the source.
// It is the extractor's output before normalisation.
type RawResult struct {
	// HighlightedName is the repository full name, possibly wrapped in
	// highlight markup around the matched term.
	HighlightedName string `json:"hl_name"`

	// HighlightedDescription is the truncated description.
	// Nil when the source reports no description at all.
	HighlightedDescription *string `json:"hl_trunc_description"`

	// Language is the primary language reported by the source.
	Language string `json:"language"`

	// Stars is the star count (the web payload calls it followers).
	Stars int `json:"followers"`

	// Topics are the repository topics.
	Topics []string `json:"topics"`

	// Archived reports whether the repository is archived.
	Archived bool `json:"archived"`
}

// HasDescription reports whether the source sent a description field value.
// An empty description still counts.
func (r RawResult) HasDescription() bool {
	return r.HighlightedDescription != nil
}
