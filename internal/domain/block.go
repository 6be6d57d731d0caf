package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/alexanderramin/planboard/internal/workweek"
)

// ScheduledBlock allocates hours to an initiative over an inclusive range of
// calendar dates. HoursPerDay is keyed by yyyy-MM-dd and only holds work days
// inside [StartDate, EndDate].
type ScheduledBlock struct {
	ID           string
	InitiativeID string
	StartDate    time.Time
	EndDate      time.Time
	HoursPerDay  map[string]float64
	CreatedAt    time.Time
}

// NewSingleDayBlock builds a one-day block with clamped hours.
func NewSingleDayBlock(id, initiativeID string, date time.Time, hours float64, now time.Time) *ScheduledBlock {
	d := workweek.Normalize(date)
	return &ScheduledBlock{
		ID:           id,
		InitiativeID: initiativeID,
		StartDate:    d,
		EndDate:      d,
		HoursPerDay:  map[string]float64{workweek.Key(d): ClampHours(hours)},
		CreatedAt:    now.UTC(),
	}
}

// Covers reports whether date lies in [StartDate, EndDate], inclusive, by
// calendar date.
func (b *ScheduledBlock) Covers(date time.Time) bool {
	k := workweek.Key(date)
	return k >= workweek.Key(b.StartDate) && k <= workweek.Key(b.EndDate)
}

// OverlapsRange reports whether the block shares at least one calendar date
// with [start, end].
func (b *ScheduledBlock) OverlapsRange(start, end time.Time) bool {
	return workweek.Key(b.StartDate) <= workweek.Key(end) &&
		workweek.Key(start) <= workweek.Key(b.EndDate)
}

// WorkDays returns the work days of the block's range.
func (b *ScheduledBlock) WorkDays() []time.Time {
	return workweek.WorkDaysInRange(b.StartDate, b.EndDate)
}

// DurationWorkDays is the block length counted in work days.
func (b *ScheduledBlock) DurationWorkDays() int {
	return workweek.CountWorkDays(b.StartDate, b.EndDate)
}

// HoursOn returns the hours allocated on date, or 0.
func (b *ScheduledBlock) HoursOn(date time.Time) float64 {
	return b.HoursPerDay[workweek.Key(date)]
}

// TotalHours sums every allocated day.
func (b *ScheduledBlock) TotalHours() float64 {
	return SumHours(b.HoursPerDay)
}

// Keys returns the allocated dates in ascending order.
func (b *ScheduledBlock) Keys() []string {
	return slices.Sorted(maps.Keys(b.HoursPerDay))
}

// Clone returns a deep copy.
func (b *ScheduledBlock) Clone() *ScheduledBlock {
	c := *b
	c.HoursPerDay = maps.Clone(b.HoursPerDay)
	if c.HoursPerDay == nil {
		c.HoursPerDay = map[string]float64{}
	}
	return &c
}

// MovedTo returns a copy starting at newStart with the same duration in work
// days. Hours are paired by position: the i-th old work day's value lands on
// the i-th new work day, so "8, 8, 4" stays "8, 8, 4" across a weekend.
// Missing entries default to DefaultDailyHours.
func (b *ScheduledBlock) MovedTo(newStart time.Time) *ScheduledBlock {
	oldDays := b.WorkDays()
	duration := len(oldDays)
	if duration == 0 {
		duration = 1
	}
	start := workweek.Normalize(newStart)
	end := workweek.AddWorkDays(start, duration-1)

	moved := b.Clone()
	moved.StartDate = start
	moved.EndDate = end
	moved.HoursPerDay = make(map[string]float64, duration)
	for i, d := range workweek.WorkDaysInRange(start, end) {
		h := DefaultDailyHours
		if i < len(oldDays) {
			h = HoursOrDefault(b.HoursPerDay, workweek.Key(oldDays[i]))
		}
		moved.HoursPerDay[workweek.Key(d)] = h
	}
	return moved
}

// ResizedTo returns a copy ending at newEnd. Days still in range keep their
// hours, new work days get DefaultDailyHours, and dropped days are discarded.
func (b *ScheduledBlock) ResizedTo(newEnd time.Time) *ScheduledBlock {
	resized := b.Clone()
	resized.EndDate = workweek.Normalize(newEnd)
	days := workweek.WorkDaysInRange(resized.StartDate, resized.EndDate)
	resized.HoursPerDay = make(map[string]float64, len(days))
	for _, d := range days {
		k := workweek.Key(d)
		resized.HoursPerDay[k] = HoursOrDefault(b.HoursPerDay, k)
	}
	return resized
}

// Validate checks the block invariants: ordered range, allocations only on
// work days inside the range, and hour values within the clamp bounds.
func (b *ScheduledBlock) Validate() error {
	if b.InitiativeID == "" {
		return fmt.Errorf("%w: block %s has no initiative", ErrValidation, b.ID)
	}
	start, end := workweek.Key(b.StartDate), workweek.Key(b.EndDate)
	if start > end {
		return fmt.Errorf("%w: block %s starts %s after it ends %s", ErrValidation, b.ID, start, end)
	}
	for k, h := range b.HoursPerDay {
		d, err := workweek.ParseDate(k)
		if err != nil {
			return fmt.Errorf("%w: block %s: %w", ErrValidation, b.ID, err)
		}
		if !workweek.IsWorkDay(d) {
			return fmt.Errorf("%w: block %s allocates hours on weekend day %s", ErrValidation, b.ID, k)
		}
		if k < start || k > end {
			return fmt.Errorf("%w: block %s allocates hours on %s outside %s..%s", ErrValidation, b.ID, k, start, end)
		}
		if !ValidHours(h) || h < MinDailyHours || h > MaxDailyHours {
			return fmt.Errorf("%w: block %s has %v hours on %s (want %v-%v)", ErrValidation, b.ID, h, k, MinDailyHours, MaxDailyHours)
		}
	}
	return nil
}

// DisplayID returns the first eight characters of the ID.
func (b *ScheduledBlock) DisplayID() string {
	if len(b.ID) >= 8 {
		return b.ID[:8]
	}
	return b.ID
}
