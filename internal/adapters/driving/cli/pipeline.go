package cli

import (
	"github.com/custodia-labs/reposcout/internal/adapters/driven/browser"
	"github.com/custodia-labs/reposcout/internal/adapters/driven/corpus/yaml"
	"github.com/custodia-labs/reposcout/internal/connectors/github"
	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driven"
	"github.com/custodia-labs/reposcout/internal/core/ports/driving"
	"github.com/custodia-labs/reposcout/internal/core/services"
	"github.com/custodia-labs/reposcout/internal/logger"
	normaliser "github.com/custodia-labs/reposcout/internal/normalisers/github"
)

// Pipeline holds the services for one run.
type Pipeline struct {
	Discovery driving.DiscoveryService
	Review    driving.ReviewService
}

// newOpener creates the browser opener; replaced in tests.
var newOpener = func() driven.BrowserOpener {
	return browser.New()
}

// newPipeline wires the adapters for settings; replaced in tests.
var newPipeline = buildPipeline

// buildPipeline wires the search client, extractor, normaliser and corpus
// loader into the discovery service. Without open, the review service
// never opens links.
func buildPipeline(settings domain.AppSettings, open bool) *Pipeline {
	client := github.NewClient(github.ConfigFromSettings(settings))
	norm := normaliser.New(settings.Filter.Exclude)
	logger.Debug("excluding names containing %v", norm.Exclude())

	discovery := services.NewDiscoveryService(
		client,
		github.NewExtractor(settings.Source.Mode),
		norm,
		yaml.NewLoader(settings.Corpus.Extensions...),
		services.DiscoveryConfig{
			Query:     settings.Source.Query,
			CorpusDir: settings.Corpus.Dir,
			PageDelay: settings.Fetch.PageDelay,
		},
	)

	var opener driven.BrowserOpener
	if open {
		opener = newOpener()
	}

	return &Pipeline{
		Discovery: discovery,
		Review:    services.NewReviewService(opener, settings.Review),
	}
}
