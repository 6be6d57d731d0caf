package domain

// PlanStatus classifies an initiative's plan against its estimate.
type PlanStatus string

const (
	StatusNoEstimate   PlanStatus = "no_estimate"
	StatusComplete     PlanStatus = "complete"
	StatusOverPlanned  PlanStatus = "over_planned"
	StatusUnderPlanned PlanStatus = "under_planned"
)

// InitiativeFilter selects initiatives by closed state.
type InitiativeFilter string

const (
	FilterActive InitiativeFilter = "active"
	FilterClosed InitiativeFilter = "closed"
	FilterAll    InitiativeFilter = "all"
)

// Matches reports whether i passes the filter. The zero value matches all.
func (f InitiativeFilter) Matches(i *Initiative) bool {
	switch f {
	case FilterActive:
		return !i.IsClosed()
	case FilterClosed:
		return i.IsClosed()
	default:
		return true
	}
}

// DuplicateMode selects how a duplicate batch handles a rejected target.
type DuplicateMode string

const (
	// DuplicateBestEffort inserts every acceptable date and reports the rest.
	DuplicateBestEffort DuplicateMode = "best_effort"
	// DuplicateAllOrNothing fails the whole batch on the first rejected date.
	DuplicateAllOrNothing DuplicateMode = "all_or_nothing"
)

// Accuracy grades consumed hours against the estimate.
type Accuracy string

const (
	AccuracyNoEstimate Accuracy = "no_estimate"
	// AccuracyPending means hours are still scheduled on open days, so the
	// final variance is not known yet.
	AccuracyPending  Accuracy = "pending"
	AccuracyOnTarget Accuracy = "on_target"
	AccuracyOver     Accuracy = "over_estimate"
	AccuracyUnder    Accuracy = "under_estimate"
)
