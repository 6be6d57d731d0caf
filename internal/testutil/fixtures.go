package testutil

import (
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/google/uuid"
)

// Day parses a yyyy-MM-dd literal.
func Day(s string) time.Time {
	return workweek.MustParseDate(s)
}

// Initiative options
type InitiativeOption func(*domain.Initiative)

func WithEstimate(h float64) InitiativeOption {
	return func(i *domain.Initiative) {
		i.EstimatedHours = &h
	}
}

func WithClosedAt(t time.Time) InitiativeOption {
	return func(i *domain.Initiative) {
		t = t.UTC()
		i.ClosedAt = &t
	}
}

func WithColor(c string) InitiativeOption {
	return func(i *domain.Initiative) {
		i.Color = c
	}
}

func WithCreatedAt(t time.Time) InitiativeOption {
	return func(i *domain.Initiative) {
		i.CreatedAt = t.UTC()
	}
}

func NewTestInitiative(name string, opts ...InitiativeOption) *domain.Initiative {
	i := &domain.Initiative{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     domain.DefaultColor,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Block options
type BlockOption func(*domain.ScheduledBlock)

// WithDayHours overrides the hours of one date.
func WithDayHours(date string, h float64) BlockOption {
	return func(b *domain.ScheduledBlock) {
		b.HoursPerDay[date] = h
	}
}

// NewTestBlock builds a block over [start, end] with DefaultDailyHours on
// every work day.
func NewTestBlock(initiativeID, start, end string, opts ...BlockOption) *domain.ScheduledBlock {
	b := &domain.ScheduledBlock{
		ID:           uuid.New().String(),
		InitiativeID: initiativeID,
		StartDate:    Day(start),
		EndDate:      Day(end),
		HoursPerDay:  map[string]float64{},
		CreatedAt:    time.Now().UTC(),
	}
	for _, d := range workweek.WorkDaysInRange(b.StartDate, b.EndDate) {
		b.HoursPerDay[workweek.Key(d)] = domain.DefaultDailyHours
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func NewTestClosedDay(date string, consumed map[string]float64) *domain.ClosedDay {
	if consumed == nil {
		consumed = map[string]float64{}
	}
	return &domain.ClosedDay{
		ID:            uuid.New().String(),
		Date:          Day(date),
		ClosedAt:      time.Now().UTC(),
		ConsumedHours: consumed,
	}
}
