package github

import (
	"strings"

	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driven"
)

// DefaultExclude is the default list of disqualifying name substrings.
var DefaultExclude = []string{"bilingual"}

// Ensure Normaliser implements the interface.
var _ driven.ResultNormaliser = (*Normaliser)(nil)

// highlightMarkup removes every form of the search highlight tags.
var highlightMarkup = strings.NewReplacer(
	`\u003cem\u003e`, "",
	`\u003c/em\u003e`, "",
	"<em>", "",
	"</em>", "",
)

// Normaliser cleans raw repository search results.
type Normaliser struct {
	exclude []string // lowercased
}

// New creates a normaliser that drops names containing any of exclude.
// Matching is case-insensitive. Empty entries are ignored.
func New(exclude []string) *Normaliser {
	lowered := make([]string, 0, len(exclude))
	for _, e := range exclude {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			lowered = append(lowered, e)
		}
	}
	return &Normaliser{exclude: lowered}
}

// Normalise converts raw results into items, preserving order.
// The input slice is not modified.
func (n *Normaliser) Normalise(raw []domain.RawResult) []domain.Item {
	items := make([]domain.Item, 0, len(raw))
	for _, r := range raw {
		if !r.HasDescription() {
			continue
		}

		name := StripHighlight(r.HighlightedName)
		if name == "" || n.excluded(name) {
			continue
		}

		items = append(items, domain.Item{
			Name:        name,
			Description: *r.HighlightedDescription,
			Language:    r.Language,
			Stars:       r.Stars,
		})
	}
	return items
}

// Exclude returns the active exclusion list.
func (n *Normaliser) Exclude() []string {
	return append([]string(nil), n.exclude...)
}

func (n *Normaliser) excluded(name string) bool {
	lower := strings.ToLower(name)
	for _, e := range n.exclude {
		if strings.Contains(lower, e) {
			return true
		}
	}
	return false
}

// StripHighlight removes highlight markup from a name.
func StripHighlight(name string) string {
	return strings.TrimSpace(highlightMarkup.Replace(name))
}
