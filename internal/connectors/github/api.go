package github

import (
	"encoding/json"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/logger"
)

// APIResultExtractor reads results from a REST repository search response.
// The REST endpoint does not highlight matches, so names arrive clean.
type APIResultExtractor struct{}

// Extract decodes the response and maps each repository to a RawResult.
func (e *APIResultExtractor) Extract(document string) []domain.RawResult {
	var result gh.RepositoriesSearchResult
	if err := json.Unmarshal([]byte(document), &result); err != nil {
		logger.Warn("failed to parse search response: %v", &domain.ExtractionError{Err: err})
		return nil
	}

	if result.GetIncompleteResults() {
		logger.Debug("search response marked incomplete")
	}

	raws := make([]domain.RawResult, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		if repo == nil {
			continue
		}
		raws = append(raws, domain.RawResult{
			HighlightedName:        repo.GetFullName(),
			HighlightedDescription: repo.Description,
			Language:               repo.GetLanguage(),
			Stars:                  repo.GetStargazersCount(),
			Topics:                 repo.Topics,
			Archived:               repo.GetArchived(),
		})
	}
	return raws
}
