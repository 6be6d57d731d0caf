// Package metrics derives planned, consumed, pending and variance figures from
// a board. It holds no state; every figure is recomputed on demand.
//
// For any initiative, Planned == Consumed + Pending as long as closed days
// are never edited, which the schedule and ledger services guarantee.
package metrics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/state"
	"github.com/alexanderramin/planboard/internal/workweek"
)

// InitiativeMetrics is the full accounting of one initiative.
type InitiativeMetrics struct {
	Initiative *domain.Initiative

	Planned  float64
	Consumed float64
	Pending  float64

	// Variance is Consumed minus the estimate. VarianceOK is false when there
	// is no estimate or hours are still pending.
	Variance    float64
	VarianceOK  bool
	VariancePct float64

	// PlanGap is Planned minus the estimate; zero without an estimate.
	PlanGap float64

	DaysScheduled int
	Instances     int
	DaysWorked    int
	Status        domain.PlanStatus
	Accuracy      domain.Accuracy
}

// OnTargetTolerance is the share of the estimate a final variance may miss
// by and still count as on target.
const OnTargetTolerance = 0.10

// Planned sums every allocated hour of the initiative's blocks.
func Planned(b *state.Board, initiativeID string) float64 {
	var total float64
	for _, blk := range b.Blocks {
		if blk.InitiativeID == initiativeID {
			total += blk.TotalHours()
		}
	}
	return total
}

// Consumed sums the initiative's frozen hours over every closed day.
func Consumed(b *state.Board, initiativeID string) float64 {
	var total float64
	for _, c := range b.ClosedDays {
		total += c.HoursFor(initiativeID)
	}
	return total
}

// Pending sums the initiative's hours on dates that are not closed.
func Pending(b *state.Board, initiativeID string) float64 {
	closed := b.ClosedSet()
	var total float64
	for _, blk := range b.Blocks {
		if blk.InitiativeID != initiativeID {
			continue
		}
		for k, h := range blk.HoursPerDay {
			if !closed[k] {
				total += h
			}
		}
	}
	return total
}

// Variance returns consumed minus estimate. ok is false when the initiative
// is unknown, has no estimate, or still has pending hours.
func Variance(b *state.Board, initiativeID string) (float64, bool) {
	i, found := b.Initiative(initiativeID)
	if !found || !i.HasEstimate() {
		return 0, false
	}
	if Pending(b, initiativeID) > 0 {
		return 0, false
	}
	return Consumed(b, initiativeID) - i.Estimate(), true
}

// Classify compares planned and consumed hours with an estimate.
func Classify(estimate *float64, planned, consumed float64) domain.PlanStatus {
	if estimate == nil {
		return domain.StatusNoEstimate
	}
	switch est := *estimate; {
	case consumed >= est:
		return domain.StatusComplete
	case planned > est:
		return domain.StatusOverPlanned
	default:
		return domain.StatusUnderPlanned
	}
}

// Assess grades a final variance against its estimate. ok is the variance's
// own ok flag; pass false while hours are pending.
func Assess(estimate *float64, variance float64, ok bool) domain.Accuracy {
	switch {
	case estimate == nil:
		return domain.AccuracyNoEstimate
	case !ok:
		return domain.AccuracyPending
	case math.Abs(variance) <= *estimate*OnTargetTolerance+1e-9:
		return domain.AccuracyOnTarget
	case variance > 0:
		return domain.AccuracyOver
	default:
		return domain.AccuracyUnder
	}
}

// ForInitiative computes the full record for i.
func ForInitiative(b *state.Board, i *domain.Initiative) InitiativeMetrics {
	m := InitiativeMetrics{Initiative: i}
	closed := b.ClosedSet()

	for _, blk := range b.Blocks {
		if blk.InitiativeID != i.ID {
			continue
		}
		m.Instances++
		m.DaysScheduled += len(blk.HoursPerDay)
		for k, h := range blk.HoursPerDay {
			m.Planned += h
			if !closed[k] {
				m.Pending += h
			}
		}
	}
	for _, c := range b.ClosedDays {
		if h := c.HoursFor(i.ID); h > 0 {
			m.Consumed += h
			m.DaysWorked++
		}
	}

	if i.HasEstimate() {
		est := i.Estimate()
		m.PlanGap = m.Planned - est
		if m.Pending == 0 {
			m.Variance = m.Consumed - est
			m.VarianceOK = true
			if est > 0 {
				m.VariancePct = m.Variance / est * 100
			}
		}
	}
	m.Status = Classify(i.EstimatedHours, m.Planned, m.Consumed)
	m.Accuracy = Assess(i.EstimatedHours, m.Variance, m.VarianceOK)
	return m
}

// Totals aggregates a board. Estimated, Planned and Pending cover active
// initiatives; Consumed covers every initiative, finalized ones included.
type Totals struct {
	Initiatives int
	Estimated   float64
	Planned     float64
	Pending     float64
	Consumed    float64
	Status      domain.PlanStatus
}

// Summary is the board overview: active initiatives by planned hours,
// largest first, plus totals.
type Summary struct {
	Rows   []InitiativeMetrics
	Totals Totals
}

// Summarize builds the board overview.
func Summarize(b *state.Board) Summary {
	var s Summary
	var hasEstimate bool
	for _, i := range b.Initiatives {
		m := ForInitiative(b, i)
		s.Totals.Consumed += m.Consumed
		if i.IsClosed() {
			continue
		}
		s.Rows = append(s.Rows, m)
		s.Totals.Initiatives++
		s.Totals.Planned += m.Planned
		s.Totals.Pending += m.Pending
		if i.HasEstimate() {
			hasEstimate = true
			s.Totals.Estimated += i.Estimate()
		}
	}
	slices.SortStableFunc(s.Rows, func(x, y InitiativeMetrics) int {
		return cmp.Compare(y.Planned, x.Planned)
	})

	var est *float64
	if hasEstimate {
		est = &s.Totals.Estimated
	}
	var activeConsumed float64
	for _, r := range s.Rows {
		activeConsumed += r.Consumed
	}
	s.Totals.Status = Classify(est, s.Totals.Planned, activeConsumed)
	return s
}

// Finalized returns closed initiatives, most recently closed first.
func Finalized(b *state.Board) []InitiativeMetrics {
	var out []InitiativeMetrics
	for _, i := range b.Initiatives {
		if i.IsClosed() {
			out = append(out, ForInitiative(b, i))
		}
	}
	slices.SortStableFunc(out, func(x, y InitiativeMetrics) int {
		return y.Initiative.ClosedAt.Compare(*x.Initiative.ClosedAt)
	})
	return out
}

// DayLoad is the scheduled load of one calendar day.
type DayLoad struct {
	Date         time.Time
	Hours        float64
	CapacityPct  float64
	Closed       bool
	ByInitiative map[string]float64
}

// WeekLoad returns Monday through Friday of the week containing weekStart.
// CapacityPct is Hours over capacity, as a percentage; capacity <= 0 falls
// back to DefaultDailyHours.
func WeekLoad(b *state.Board, weekStart time.Time, capacity float64) []DayLoad {
	if capacity <= 0 {
		capacity = domain.DefaultDailyHours
	}
	closed := b.ClosedSet()
	days := workweek.WeekDays(weekStart)
	out := make([]DayLoad, len(days))
	for n, d := range days {
		k := workweek.Key(d)
		load := DayLoad{Date: d, Closed: closed[k], ByInitiative: map[string]float64{}}
		for _, blk := range b.Blocks {
			if h := blk.HoursPerDay[k]; h > 0 {
				load.Hours += h
				load.ByInitiative[blk.InitiativeID] += h
			}
		}
		load.CapacityPct = load.Hours / capacity * 100
		out[n] = load
	}
	return out
}
