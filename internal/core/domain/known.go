package domain

import (
	"sort"
	"strings"
)

// OriginGitHub is the corpus origin tag for GitHub-hosted entries.
const OriginGitHub = "github"

// KnownRecord is one entry of the curated corpus.
// Fields other than from/link are ignored.
type KnownRecord struct {
	// Origin identifies where the entry was curated from.
	Origin string `yaml:"from"`

	// Link is the entry's repository identifier, either a slug or a URL.
	Link string `yaml:"link"`
}

// Contributes reports whether the record belongs in the known set.
func (r KnownRecord) Contributes() bool {
	return r.Origin == OriginGitHub && strings.TrimSpace(r.Link) != ""
}

// KnownSet holds the repository keys already present in the corpus.
// It is built once per run and never modified afterwards.
type KnownSet struct {
	keys map[string]struct{}
}

// NewKnownSet builds a set from identifiers. Each identifier is passed
// through RepoKey, so slugs and URLs for the same repository collapse.
func NewKnownSet(ids ...string) KnownSet {
	keys := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if k := RepoKey(id); k != "" {
			keys[k] = struct{}{}
		}
	}
	return KnownSet{keys: keys}
}

// Has reports whether the identifier (slug or URL) is known.
func (s KnownSet) Has(id string) bool {
	if s.keys == nil {
		return false
	}
	_, ok := s.keys[RepoKey(id)]
	return ok
}

// Len returns the number of distinct keys.
func (s KnownSet) Len() int {
	return len(s.keys)
}

// Keys returns the keys in sorted order.
func (s KnownSet) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RepoKey reduces a repository identifier to its canonical "owner/repo" form.
//
// Corpus links may be written as bare slugs or as full URLs, while search
// results carry bare slugs. Both sides go through RepoKey before comparison.
// GitHub names are case-insensitive, so keys are lowercased. Path segments
// past the repository name ("/tree/main", "/issues") and any query or
// fragment are dropped.
func RepoKey(id string) string {
	k := strings.ToLower(strings.TrimSpace(id))
	k = strings.TrimPrefix(k, "https://")
	k = strings.TrimPrefix(k, "http://")
	k = strings.TrimPrefix(k, "www.")
	k = strings.TrimPrefix(k, "github.com/")
	if i := strings.IndexAny(k, "?#"); i >= 0 {
		k = k[:i]
	}
	parts := strings.SplitN(strings.Trim(k, "/"), "/", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.TrimSuffix(strings.Join(parts, "/"), ".git")
}
