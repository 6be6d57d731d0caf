package service

import (
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/state"
	"github.com/alexanderramin/planboard/internal/workweek"
)

func requireInitiative(b *state.Board, id string) (*domain.Initiative, error) {
	i, ok := b.Initiative(id)
	if !ok {
		return nil, fmt.Errorf("initiative %s: %w", id, domain.ErrNotFound)
	}
	return i, nil
}

func requireBlock(b *state.Board, id string) (*domain.ScheduledBlock, error) {
	blk, ok := b.Block(id)
	if !ok {
		return nil, fmt.Errorf("scheduled block %s: %w", id, domain.ErrNotFound)
	}
	return blk, nil
}

func requireWorkDay(date time.Time) error {
	if !workweek.IsWorkDay(date) {
		return fmt.Errorf("%w: %s is a %s, only Monday to Friday can be scheduled",
			domain.ErrValidation, workweek.Key(date), date.Weekday())
	}
	return nil
}

// closedDayIn returns the first closed day inside [start, end].
func closedDayIn(b *state.Board, start, end time.Time) (*domain.ClosedDay, bool) {
	from, to := workweek.Key(start), workweek.Key(end)
	for _, c := range b.ClosedDays {
		if k := c.Key(); k >= from && k <= to {
			return c, true
		}
	}
	return nil, false
}

// overlappingBlock returns another block of the same initiative sharing a
// date with [start, end]. The block with ID except is ignored.
func overlappingBlock(b *state.Board, initiativeID string, start, end time.Time, except string) (*domain.ScheduledBlock, bool) {
	for _, blk := range b.Blocks {
		if blk.InitiativeID == initiativeID && blk.ID != except && blk.OverlapsRange(start, end) {
			return blk, true
		}
	}
	return nil, false
}

// checkBlockEditable reports why a block cannot be changed: a finalized
// initiative, or any day of its range being closed.
func checkBlockEditable(b *state.Board, blk *domain.ScheduledBlock) error {
	i, err := requireInitiative(b, blk.InitiativeID)
	if err != nil {
		return err
	}
	if err := i.CheckEditable(); err != nil {
		return err
	}
	if c, ok := closedDayIn(b, blk.StartDate, blk.EndDate); ok {
		return fmt.Errorf("%w: block %s covers %s", domain.ErrDayClosed, blk.DisplayID(), c.Key())
	}
	return nil
}

// checkRangeFree rejects a candidate range that touches a closed day or
// another block of the same initiative.
func checkRangeFree(b *state.Board, candidate *domain.ScheduledBlock) error {
	if c, ok := closedDayIn(b, candidate.StartDate, candidate.EndDate); ok {
		return fmt.Errorf("%w: %s..%s includes %s",
			domain.ErrDayClosed, workweek.Key(candidate.StartDate), workweek.Key(candidate.EndDate), c.Key())
	}
	if other, ok := overlappingBlock(b, candidate.InitiativeID, candidate.StartDate, candidate.EndDate, candidate.ID); ok {
		return fmt.Errorf("%w: initiative is already scheduled %s..%s (block %s)",
			domain.ErrConflict, workweek.Key(other.StartDate), workweek.Key(other.EndDate), other.DisplayID())
	}
	return nil
}
