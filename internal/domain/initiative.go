package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultColor is stored when an initiative is created without a color.
const DefaultColor = "#ef4444"

// Initiative is a unit of planned work with an optional effort estimate.
// Color and Icon are presentation metadata and opaque to the core.
type Initiative struct {
	ID             string
	Name           string
	Description    string
	Color          string
	Icon           string
	EstimatedHours *float64
	ClosedAt       *time.Time
	CreatedAt      time.Time
}

// InitiativeInput carries the editable fields of an initiative.
type InitiativeInput struct {
	Name           string
	Description    string
	Color          string
	Icon           string
	EstimatedHours *float64
}

// Validate checks the input and returns an ErrValidation-wrapped error.
func (in InitiativeInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: initiative name is required", ErrValidation)
	}
	if in.EstimatedHours != nil {
		h := *in.EstimatedHours
		if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
			return fmt.Errorf("%w: estimated hours must be a non-negative number, got %v", ErrValidation, h)
		}
	}
	return nil
}

// Apply copies the input onto i, trimming the name and defaulting the color.
func (in InitiativeInput) Apply(i *Initiative) {
	i.Name = strings.TrimSpace(in.Name)
	i.Description = in.Description
	i.Color = CoalesceStr(strings.TrimSpace(in.Color), i.Color, DefaultColor)
	i.Icon = in.Icon
	i.EstimatedHours = nil
	if in.EstimatedHours != nil {
		h := *in.EstimatedHours
		i.EstimatedHours = &h
	}
}

// IsClosed reports whether the initiative has been finalized.
func (i *Initiative) IsClosed() bool {
	return i.ClosedAt != nil
}

// HasEstimate reports whether an estimate was recorded.
func (i *Initiative) HasEstimate() bool {
	return i.EstimatedHours != nil
}

// Estimate returns the estimate, or 0 when none was recorded.
func (i *Initiative) Estimate() float64 {
	return Float64FromPtrWithDefault(0, i.EstimatedHours)
}

// Close finalizes the initiative. Closing is one-way.
func (i *Initiative) Close(now time.Time) error {
	if i.IsClosed() {
		return fmt.Errorf("%w: initiative %q is already finalized", ErrConflict, i.Name)
	}
	t := now.UTC()
	i.ClosedAt = &t
	return nil
}

// CheckEditable returns ErrInitiativeClosed when the initiative is finalized.
func (i *Initiative) CheckEditable() error {
	if i.IsClosed() {
		return fmt.Errorf("%w: %q can no longer be planned", ErrInitiativeClosed, i.Name)
	}
	return nil
}

// Clone returns a deep copy.
func (i *Initiative) Clone() *Initiative {
	c := *i
	if i.EstimatedHours != nil {
		h := *i.EstimatedHours
		c.EstimatedHours = &h
	}
	if i.ClosedAt != nil {
		t := *i.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}

// DisplayID returns the first eight characters of the ID.
func (i *Initiative) DisplayID() string {
	if len(i.ID) >= 8 {
		return i.ID[:8]
	}
	return i.ID
}
