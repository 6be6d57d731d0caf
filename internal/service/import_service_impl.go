package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/snapshot"
	"github.com/alexanderramin/planboard/internal/state"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) Export(b *state.Board) *snapshot.Snapshot {
	return snapshot.FromBoard(b, time.Now())
}

// Import loads a snapshot into an empty board. The whole snapshot is written
// in one transaction; nothing is written if any part is invalid.
func (s *importService) Import(ctx context.Context, b *state.Board, snap *snapshot.Snapshot) (result *ImportResult, err error) {
	fields := map[string]any{}
	defer func(start time.Time) { observe(ctx, s.observer, "import", start, fields, err) }(time.Now())

	if len(b.Initiatives)+len(b.Blocks)+len(b.ClosedDays) > 0 {
		return nil, fmt.Errorf("%w: board is not empty; reset it before importing", domain.ErrConflict)
	}
	loaded, err := snap.Board()
	if err != nil {
		return nil, err
	}
	fields["initiatives"] = len(loaded.Initiatives)
	fields["blocks"] = len(loaded.Blocks)
	fields["closed_days"] = len(loaded.ClosedDays)

	err = s.uow.WithinTx(ctx, "importing snapshot", func(ctx context.Context, tx db.DBTX) error {
		initiatives := repository.NewSQLiteInitiativeRepo(tx)
		existing, err := initiatives.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: store already holds initiatives; reset it before importing", domain.ErrConflict)
		}
		for _, i := range loaded.Initiatives {
			if err := initiatives.Create(ctx, i); err != nil {
				return err
			}
		}
		blocks := repository.NewSQLiteBlockRepo(tx)
		for _, blk := range loaded.Blocks {
			if err := blocks.Create(ctx, blk); err != nil {
				return err
			}
		}
		closed := repository.NewSQLiteClosedDayRepo(tx)
		for _, c := range loaded.ClosedDays {
			if err := closed.Create(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.Initiatives, b.Blocks, b.ClosedDays = loaded.Initiatives, loaded.Blocks, loaded.ClosedDays
	return &ImportResult{
		Initiatives: len(loaded.Initiatives),
		Blocks:      len(loaded.Blocks),
		ClosedDays:  len(loaded.ClosedDays),
	}, nil
}
