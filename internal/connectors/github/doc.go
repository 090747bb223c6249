// Package github implements the search source for GitHub repositories.
//
// The source walks the repository search results for a fixed query,
// ordered by last update, one page at a time.
//
// # Architecture
//
// The package provides the driven ports used by the discovery pipeline:
//
//   - Client: fetches one results page with bounded retry ([driven.PageFetcher])
//   - EmbeddedDataExtractor: reads results from the HTML search page
//   - APIResultExtractor: reads results from the REST search endpoint
//   - SearchConfig: builds page URLs from settings
//
// # Modes
//
// Web mode requests https://github.com/search?q=...&type=repositories&s=updated&o=desc&p=N
// with a desktop browser User-Agent; the page rejects default client
// identifiers. Results are read from the script block tagged
// data-target="react-app.embeddedData".
//
// API mode requests /search/repositories on the REST host, optionally with
// a token, and decodes the response with go-github's types.
//
// # Retry and Rate Limiting
//
// Every failed attempt (transport error or non-2xx status) is retried up to
// MaxRetries times with a fixed RetryDelay between attempts. When all
// attempts fail, Fetch returns a [domain.PageSkippedError] so the caller
// can move on to the next page.
//
// Independently, a token bucket caps the request rate, and Retry-After or
// exhausted X-RateLimit-* headers delay the next request until the reset
// time (capped at MaxReactiveWait).
//
// Pacing between pages is the caller's concern.
//
// # Example Usage
//
//	cfg := github.ConfigFromSettings(settings)
//	client := github.NewClient(cfg)
//	extractor := github.NewExtractor(cfg.Mode)
//
//	body, err := client.Fetch(ctx, 1)
//	if err != nil {
//	    // domain.IsPageSkipped(err) or ctx cancelled
//	}
//	raws := extractor.Extract(body)
package github
