package domain

import (
	"maps"
	"time"

	"github.com/alexanderramin/planboard/internal/workweek"
)

// ClosedDay freezes the hours each initiative had scheduled on Date when the
// day was closed. It is never edited, only deleted on reopen.
type ClosedDay struct {
	ID            string
	Date          time.Time
	ClosedAt      time.Time
	ConsumedHours map[string]float64
}

// Key returns the yyyy-MM-dd form of Date.
func (c *ClosedDay) Key() string {
	return workweek.Key(c.Date)
}

// HoursFor returns the consumed hours recorded for an initiative, or 0.
func (c *ClosedDay) HoursFor(initiativeID string) float64 {
	return c.ConsumedHours[initiativeID]
}

// Total sums the consumed hours of every initiative.
func (c *ClosedDay) Total() float64 {
	return SumHours(c.ConsumedHours)
}

// Clone returns a deep copy.
func (c *ClosedDay) Clone() *ClosedDay {
	cp := *c
	cp.ConsumedHours = maps.Clone(c.ConsumedHours)
	if cp.ConsumedHours == nil {
		cp.ConsumedHours = map[string]float64{}
	}
	return &cp
}

// SnapshotConsumed totals the positive hours each initiative has on date
// across blocks. The result is empty, never nil, when nothing is scheduled.
func SnapshotConsumed(date time.Time, blocks []*ScheduledBlock) map[string]float64 {
	key := workweek.Key(date)
	consumed := map[string]float64{}
	for _, b := range blocks {
		if h := b.HoursPerDay[key]; h > 0 {
			consumed[b.InitiativeID] += h
		}
	}
	return consumed
}
