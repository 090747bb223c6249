package services

import "github.com/custodia-labs/reposcout/internal/core/domain"

// Dedup returns the items whose repository is not in known, in order.
// Neither argument is modified.
func Dedup(items []domain.Item, known domain.KnownSet) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if !known.Has(item.Name) {
			out = append(out, item)
		}
	}
	return out
}

// Unique drops repeated repositories, keeping the first occurrence.
// Search ordering shifts while a run is in progress, so the same
// repository can appear on two pages.
func Unique(items []domain.Item) []domain.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
