package github

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/reposcout/internal/core/domain"
	"github.com/custodia-labs/reposcout/internal/core/ports/driven"
	"github.com/custodia-labs/reposcout/internal/logger"
)

// EmbeddedDataSelector matches the script block in which the search page
// ships its results to the client-side renderer.
const EmbeddedDataSelector = `script[type="application/json"][data-target="react-app.embeddedData"]`

// Ensure the extractors implement the interface.
var (
	_ driven.ResultExtractor = (*EmbeddedDataExtractor)(nil)
	_ driven.ResultExtractor = (*APIResultExtractor)(nil)
)

// NewExtractor returns the extractor matching the source mode.
func NewExtractor(mode domain.SourceMode) driven.ResultExtractor {
	if mode == domain.SourceModeAPI {
		return &APIResultExtractor{}
	}
	return &EmbeddedDataExtractor{}
}

// EmbeddedDataExtractor reads results from the JSON payload embedded in
// the HTML search page.
type EmbeddedDataExtractor struct{}

// embeddedData is the subset of the embedded payload we read.
type embeddedData struct {
	Payload struct {
		Results []domain.RawResult `json:"results"`
	} `json:"payload"`
}

// Extract returns the results found at payload.results.
// A page without the script block, or with a malformed payload, yields no
// results.
func (e *EmbeddedDataExtractor) Extract(document string) []domain.RawResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		logger.Warn("%v", &domain.ExtractionError{Err: err})
		return nil
	}

	script := doc.Find(EmbeddedDataSelector).First()
	if script.Length() == 0 {
		logger.Debug("no embedded payload found")
		return nil
	}

	var data embeddedData
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		logger.Warn("failed to parse JSON data: %v", &domain.ExtractionError{Err: err})
		return nil
	}

	return data.Payload.Results
}
