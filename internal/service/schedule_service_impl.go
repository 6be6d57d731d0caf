package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/state"
	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/google/uuid"
)

type scheduleService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewScheduleService(uow db.UnitOfWork, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Schedule places a single-day, full-day block for the initiative on date.
func (s *scheduleService) Schedule(ctx context.Context, b *state.Board, initiativeID string, date time.Time) (created *domain.ScheduledBlock, err error) {
	date = workweek.Normalize(date)
	fields := map[string]any{"initiative_id": initiativeID, "date": workweek.Key(date)}
	defer func(start time.Time) { observe(ctx, s.observer, "schedule", start, fields, err) }(time.Now())

	i, err := requireInitiative(b, initiativeID)
	if err != nil {
		return nil, err
	}
	if err = i.CheckEditable(); err != nil {
		return nil, err
	}
	if err = requireWorkDay(date); err != nil {
		return nil, err
	}
	blk := domain.NewSingleDayBlock(uuid.New().String(), initiativeID, date, domain.DefaultDailyHours, time.Now())
	if err = checkRangeFree(b, blk); err != nil {
		return nil, err
	}
	fields["block_id"] = blk.ID

	if err = s.insert(ctx, blk); err != nil {
		return nil, err
	}
	b.AddBlocks(blk)
	return blk, nil
}

// Move shifts a block to newStart keeping its length in work days and the
// positional shape of its hours.
func (s *scheduleService) Move(ctx context.Context, b *state.Board, blockID string, newStart time.Time) (moved *domain.ScheduledBlock, err error) {
	newStart = workweek.Normalize(newStart)
	fields := map[string]any{"block_id": blockID, "new_start": workweek.Key(newStart)}
	defer func(start time.Time) { observe(ctx, s.observer, "move", start, fields, err) }(time.Now())

	blk, err := requireBlock(b, blockID)
	if err != nil {
		return nil, err
	}
	if err = checkBlockEditable(b, blk); err != nil {
		return nil, err
	}
	if err = requireWorkDay(newStart); err != nil {
		return nil, err
	}
	next := blk.MovedTo(newStart)
	if err = checkRangeFree(b, next); err != nil {
		return nil, err
	}
	fields["new_end"] = workweek.Key(next.EndDate)

	if err = s.update(ctx, next); err != nil {
		return nil, err
	}
	b.ReplaceBlock(next)
	return next, nil
}

// Resize moves the end of a block. Kept days keep their hours, new work days
// get the default allocation, dropped days are discarded.
func (s *scheduleService) Resize(ctx context.Context, b *state.Board, blockID string, newEnd time.Time) (resized *domain.ScheduledBlock, err error) {
	newEnd = workweek.Normalize(newEnd)
	fields := map[string]any{"block_id": blockID, "new_end": workweek.Key(newEnd)}
	defer func(start time.Time) { observe(ctx, s.observer, "resize", start, fields, err) }(time.Now())

	blk, err := requireBlock(b, blockID)
	if err != nil {
		return nil, err
	}
	return s.resize(ctx, b, blk, newEnd)
}

// Extend grows a block by one work day.
func (s *scheduleService) Extend(ctx context.Context, b *state.Board, blockID string) (resized *domain.ScheduledBlock, err error) {
	fields := map[string]any{"block_id": blockID}
	defer func(start time.Time) { observe(ctx, s.observer, "extend", start, fields, err) }(time.Now())

	blk, err := requireBlock(b, blockID)
	if err != nil {
		return nil, err
	}
	return s.resize(ctx, b, blk, workweek.NextWorkDay(blk.EndDate))
}

// Shrink drops the last work day of a block. A one-day block cannot shrink.
func (s *scheduleService) Shrink(ctx context.Context, b *state.Board, blockID string) (resized *domain.ScheduledBlock, err error) {
	fields := map[string]any{"block_id": blockID}
	defer func(start time.Time) { observe(ctx, s.observer, "shrink", start, fields, err) }(time.Now())

	blk, err := requireBlock(b, blockID)
	if err != nil {
		return nil, err
	}
	if blk.DurationWorkDays() <= 1 {
		return nil, fmt.Errorf("%w: block %s is a single work day; remove it instead", domain.ErrValidation, blk.DisplayID())
	}
	return s.resize(ctx, b, blk, workweek.PrevWorkDay(blk.EndDate))
}

func (s *scheduleService) resize(ctx context.Context, b *state.Board, blk *domain.ScheduledBlock, newEnd time.Time) (*domain.ScheduledBlock, error) {
	if err := checkBlockEditable(b, blk); err != nil {
		return nil, err
	}
	if err := requireWorkDay(newEnd); err != nil {
		return nil, err
	}
	if workweek.Key(newEnd) < workweek.Key(blk.StartDate) {
		return nil, fmt.Errorf("%w: end %s is before start %s",
			domain.ErrValidation, workweek.Key(newEnd), workweek.Key(blk.StartDate))
	}
	next := blk.ResizedTo(newEnd)
	if err := checkRangeFree(b, next); err != nil {
		return nil, err
	}
	if err := s.update(ctx, next); err != nil {
		return nil, err
	}
	b.ReplaceBlock(next)
	return next, nil
}

// UpdateHours sets the hours of one day of a block, clamped to the allowed
// range.
func (s *scheduleService) UpdateHours(ctx context.Context, b *state.Board, blockID string, date time.Time, hours float64) (updated *domain.ScheduledBlock, err error) {
	date = workweek.Normalize(date)
	fields := map[string]any{"block_id": blockID, "date": workweek.Key(date), "hours": hours}
	defer func(start time.Time) { observe(ctx, s.observer, "update-hours", start, fields, err) }(time.Now())

	blk, err := requireBlock(b, blockID)
	if err != nil {
		return nil, err
	}
	i, err := requireInitiative(b, blk.InitiativeID)
	if err != nil {
		return nil, err
	}
	if err = i.CheckEditable(); err != nil {
		return nil, err
	}
	if b.IsClosed(date) {
		return nil, fmt.Errorf("%w: hours on %s are frozen", domain.ErrDayClosed, workweek.Key(date))
	}
	if !workweek.IsWorkDay(date) || !blk.Covers(date) {
		return nil, fmt.Errorf("%w: %s is not a work day of block %s (%s..%s)", domain.ErrValidation,
			workweek.Key(date), blk.DisplayID(), workweek.Key(blk.StartDate), workweek.Key(blk.EndDate))
	}
	if !domain.ValidHours(hours) {
		return nil, fmt.Errorf("%w: hours must be a number, got %v", domain.ErrValidation, hours)
	}

	next := blk.Clone()
	next.HoursPerDay[workweek.Key(date)] = domain.ClampHours(hours)
	fields["stored_hours"] = next.HoursPerDay[workweek.Key(date)]

	if err = s.update(ctx, next); err != nil {
		return nil, err
	}
	b.ReplaceBlock(next)
	return next, nil
}

// Remove deletes a block that is neither finalized nor touching a closed day.
func (s *scheduleService) Remove(ctx context.Context, b *state.Board, blockID string) (err error) {
	fields := map[string]any{"block_id": blockID}
	defer func(start time.Time) { observe(ctx, s.observer, "remove", start, fields, err) }(time.Now())

	blk, err := requireBlock(b, blockID)
	if err != nil {
		return err
	}
	if err = checkBlockEditable(b, blk); err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, "removing block", func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteBlockRepo(tx).Delete(ctx, blockID)
	})
	if err != nil {
		return err
	}
	b.RemoveBlock(blockID)
	return nil
}

// Duplicate copies a block onto single days. Every target is checked first;
// in best-effort mode rejected and failed dates are reported while the rest
// are created one by one, in all-or-nothing mode the first rejection fails
// the call and the batch is written in a single transaction.
func (s *scheduleService) Duplicate(ctx context.Context, b *state.Board, blockID string, targets []DuplicateTarget, mode domain.DuplicateMode) (result *DuplicateResult, err error) {
	if mode == "" {
		mode = domain.DuplicateBestEffort
	}
	fields := map[string]any{"block_id": blockID, "targets": len(targets), "mode": string(mode)}
	defer func(start time.Time) { observe(ctx, s.observer, "duplicate", start, fields, err) }(time.Now())

	src, err := requireBlock(b, blockID)
	if err != nil {
		return nil, err
	}
	i, err := requireInitiative(b, src.InitiativeID)
	if err != nil {
		return nil, err
	}
	if err = i.CheckEditable(); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no dates to duplicate onto", domain.ErrValidation)
	}
	if mode != domain.DuplicateBestEffort && mode != domain.DuplicateAllOrNothing {
		return nil, fmt.Errorf("%w: unknown duplicate mode %q", domain.ErrValidation, mode)
	}

	result = &DuplicateResult{}
	var accepted []*domain.ScheduledBlock
	seen := map[string]bool{}
	now := time.Now()
	for _, t := range targets {
		date := workweek.Normalize(t.Date)
		blk, rejectErr := s.duplicateTarget(b, src, date, t.Hours, seen, now)
		if rejectErr != nil {
			if mode == domain.DuplicateAllOrNothing {
				return nil, rejectErr
			}
			result.Skipped = append(result.Skipped, DuplicateSkip{Date: date, Err: rejectErr})
			continue
		}
		accepted = append(accepted, blk)
	}

	if mode == domain.DuplicateAllOrNothing {
		err = s.uow.WithinTx(ctx, "duplicating block", func(ctx context.Context, tx db.DBTX) error {
			repo := repository.NewSQLiteBlockRepo(tx)
			for _, blk := range accepted {
				if err := repo.Create(ctx, blk); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		result.Created = accepted
	} else {
		for _, blk := range accepted {
			if insErr := s.insert(ctx, blk); insErr != nil {
				result.Skipped = append(result.Skipped, DuplicateSkip{Date: blk.StartDate, Err: insErr})
				continue
			}
			result.Created = append(result.Created, blk)
		}
	}

	b.AddBlocks(result.Created...)
	fields["created"] = len(result.Created)
	fields["skipped"] = len(result.Skipped)
	return result, nil
}

func (s *scheduleService) duplicateTarget(b *state.Board, src *domain.ScheduledBlock, date time.Time, hours float64, seen map[string]bool, now time.Time) (*domain.ScheduledBlock, error) {
	key := workweek.Key(date)
	if err := requireWorkDay(date); err != nil {
		return nil, err
	}
	if seen[key] {
		return nil, fmt.Errorf("%w: %s is listed more than once", domain.ErrValidation, key)
	}
	seen[key] = true
	if !domain.ValidHours(hours) {
		return nil, fmt.Errorf("%w: hours for %s must be a number, got %v", domain.ErrValidation, key, hours)
	}
	blk := domain.NewSingleDayBlock(uuid.New().String(), src.InitiativeID, date, hours, now)
	if err := checkRangeFree(b, blk); err != nil {
		return nil, err
	}
	return blk, nil
}

func (s *scheduleService) insert(ctx context.Context, blk *domain.ScheduledBlock) error {
	return s.uow.WithinTx(ctx, "saving block", func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteBlockRepo(tx).Create(ctx, blk)
	})
}

func (s *scheduleService) update(ctx context.Context, blk *domain.ScheduledBlock) error {
	return s.uow.WithinTx(ctx, "updating block", func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteBlockRepo(tx).Update(ctx, blk)
	})
}

// ListBlocks returns the blocks of one initiative ordered by start date.
func (s *scheduleService) ListBlocks(b *state.Board, initiativeID string) []*domain.ScheduledBlock {
	blocks := b.BlocksOf(initiativeID)
	slices.SortStableFunc(blocks, byStart)
	return blocks
}

// BlocksInRange returns every block sharing a date with [from, to], ordered
// by start date.
func (s *scheduleService) BlocksInRange(b *state.Board, from, to time.Time) []*domain.ScheduledBlock {
	var out []*domain.ScheduledBlock
	for _, blk := range b.Blocks {
		if blk.OverlapsRange(from, to) {
			out = append(out, blk)
		}
	}
	slices.SortStableFunc(out, byStart)
	return out
}

// EditableBlock returns nil when the block may be moved, resized or removed,
// otherwise the reason it is locked.
func (s *scheduleService) EditableBlock(b *state.Board, blockID string) error {
	blk, err := requireBlock(b, blockID)
	if err != nil {
		return err
	}
	return checkBlockEditable(b, blk)
}

// CoveredDates lists every work day already covered by the initiative, the
// dates a duplicate must skip.
func (s *scheduleService) CoveredDates(b *state.Board, initiativeID string) []time.Time {
	set := map[string]time.Time{}
	for _, blk := range b.BlocksOf(initiativeID) {
		for _, d := range blk.WorkDays() {
			set[workweek.Key(d)] = d
		}
	}
	out := make([]time.Time, 0, len(set))
	for _, d := range set {
		out = append(out, d)
	}
	slices.SortFunc(out, func(x, y time.Time) int { return x.Compare(y) })
	return out
}

func byStart(x, y *domain.ScheduledBlock) int {
	return x.StartDate.Compare(y.StartDate)
}
