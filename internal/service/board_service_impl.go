package service

import (
	"context"
	"time"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/state"
)

type boardService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewBoardService(uow db.UnitOfWork, observers ...UseCaseObserver) BoardService {
	return &boardService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Load reads initiatives, blocks and closed days in one read transaction.
func (s *boardService) Load(ctx context.Context) (b *state.Board, err error) {
	fields := map[string]any{}
	defer func(start time.Time) { observe(ctx, s.observer, "board-load", start, fields, err) }(time.Now())

	b = state.New()
	err = s.uow.WithinTx(ctx, "loading board", func(ctx context.Context, tx db.DBTX) error {
		initiatives, err := repository.NewSQLiteInitiativeRepo(tx).List(ctx)
		if err != nil {
			return err
		}
		blocks, err := repository.NewSQLiteBlockRepo(tx).List(ctx)
		if err != nil {
			return err
		}
		closed, err := repository.NewSQLiteClosedDayRepo(tx).List(ctx)
		if err != nil {
			return err
		}
		b.Initiatives, b.Blocks, b.ClosedDays = initiatives, blocks, closed
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["initiatives"] = len(b.Initiatives)
	fields["blocks"] = len(b.Blocks)
	fields["closed_days"] = len(b.ClosedDays)
	return b, nil
}

// Reset deletes everything. Children go first so foreign keys hold.
func (s *boardService) Reset(ctx context.Context, b *state.Board) (err error) {
	fields := map[string]any{
		"initiatives": len(b.Initiatives),
		"blocks":      len(b.Blocks),
		"closed_days": len(b.ClosedDays),
	}
	defer func(start time.Time) { observe(ctx, s.observer, "board-reset", start, fields, err) }(time.Now())

	err = s.uow.WithinTx(ctx, "resetting board", func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteBlockRepo(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := repository.NewSQLiteClosedDayRepo(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return repository.NewSQLiteInitiativeRepo(tx).DeleteAll(ctx)
	})
	if err != nil {
		return err
	}
	b.Reset()
	return nil
}
