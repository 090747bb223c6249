// Package tui provides the interactive batch review interface for reposcout.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/reposcout/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Review plans batches and opens them in the browser.
	Review driving.ReviewService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(review driving.ReviewService) *Ports {
	return &Ports{Review: review}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Review == nil {
		return ErrMissingReviewService
	}
	return nil
}
