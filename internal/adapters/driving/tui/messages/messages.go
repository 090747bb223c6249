// Package messages defines Bubbletea message types for the review TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/reposcout/internal/core/domain"
)

// OpenRequested asks the model to open the next batch.
type OpenRequested struct{}

// BatchOpened reports that a batch was handed to the browser.
type BatchOpened struct {
	Batch   domain.Batch
	Summary domain.OpenSummary
}

// ReviewFinished is sent once every batch has been opened.
type ReviewFinished struct {
	Opened int
	Failed int
}

// ErrorOccurred carries an error to display.
type ErrorOccurred struct {
	Err error
}
