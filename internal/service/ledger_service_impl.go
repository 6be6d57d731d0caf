package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/state"
	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/google/uuid"
)

type ledgerService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewLedgerService(uow db.UnitOfWork, observers ...UseCaseObserver) LedgerService {
	return &ledgerService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// CloseDay freezes the hours scheduled on date. The snapshot is taken from the
// blocks as they are now and never recomputed.
func (s *ledgerService) CloseDay(ctx context.Context, b *state.Board, date time.Time) (closed *domain.ClosedDay, err error) {
	date = workweek.Normalize(date)
	fields := map[string]any{"date": workweek.Key(date)}
	defer func(start time.Time) { observe(ctx, s.observer, "close-day", start, fields, err) }(time.Now())

	if err = requireWorkDay(date); err != nil {
		return nil, err
	}
	if b.IsClosed(date) {
		return nil, fmt.Errorf("%w: %s is already closed", domain.ErrConflict, workweek.Key(date))
	}

	closed = &domain.ClosedDay{
		ID:            uuid.New().String(),
		Date:          date,
		ClosedAt:      time.Now().UTC(),
		ConsumedHours: domain.SnapshotConsumed(date, b.Blocks),
	}
	fields["initiatives"] = len(closed.ConsumedHours)
	fields["hours"] = closed.Total()

	err = s.uow.WithinTx(ctx, "closing day", func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteClosedDayRepo(tx).Create(ctx, closed)
	})
	if err != nil {
		return nil, err
	}
	b.AddClosedDay(closed)
	return closed, nil
}

// ReopenDay discards the closure of date. Blocks are left as they are.
func (s *ledgerService) ReopenDay(ctx context.Context, b *state.Board, date time.Time) (err error) {
	date = workweek.Normalize(date)
	fields := map[string]any{"date": workweek.Key(date)}
	defer func(start time.Time) { observe(ctx, s.observer, "reopen-day", start, fields, err) }(time.Now())

	if !b.IsClosed(date) {
		return fmt.Errorf("closed day %s: %w", workweek.Key(date), domain.ErrNotFound)
	}

	err = s.uow.WithinTx(ctx, "reopening day", func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteClosedDayRepo(tx).DeleteByDate(ctx, date)
	})
	if err != nil {
		return err
	}
	b.RemoveClosedDay(date)
	return nil
}

func (s *ledgerService) IsClosed(b *state.Board, date time.Time) bool {
	return b.IsClosed(date)
}

// List returns the closed days ordered by date.
func (s *ledgerService) List(b *state.Board) []*domain.ClosedDay {
	out := make([]*domain.ClosedDay, len(b.ClosedDays))
	copy(out, b.ClosedDays)
	return out
}
