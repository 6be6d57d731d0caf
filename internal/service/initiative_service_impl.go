package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/state"
	"github.com/google/uuid"
)

type initiativeService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewInitiativeService(uow db.UnitOfWork, observers ...UseCaseObserver) InitiativeService {
	return &initiativeService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *initiativeService) Create(ctx context.Context, b *state.Board, in domain.InitiativeInput) (created *domain.Initiative, err error) {
	fields := map[string]any{"name": in.Name}
	defer func(start time.Time) { observe(ctx, s.observer, "initiative-create", start, fields, err) }(time.Now())

	if err = in.Validate(); err != nil {
		return nil, err
	}
	i := &domain.Initiative{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
	in.Apply(i)
	fields["initiative_id"] = i.ID

	err = s.uow.WithinTx(ctx, "creating initiative", func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteInitiativeRepo(tx).Create(ctx, i)
	})
	if err != nil {
		return nil, err
	}
	b.AddInitiative(i)
	return i, nil
}

func (s *initiativeService) Update(ctx context.Context, b *state.Board, id string, in domain.InitiativeInput) (updated *domain.Initiative, err error) {
	fields := map[string]any{"initiative_id": id}
	defer func(start time.Time) { observe(ctx, s.observer, "initiative-update", start, fields, err) }(time.Now())

	current, err := requireInitiative(b, id)
	if err != nil {
		return nil, err
	}
	if err = current.CheckEditable(); err != nil {
		return nil, err
	}
	if err = in.Validate(); err != nil {
		return nil, err
	}
	next := current.Clone()
	in.Apply(next)

	err = s.uow.WithinTx(ctx, "updating initiative", func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteInitiativeRepo(tx).Update(ctx, next)
	})
	if err != nil {
		return nil, err
	}
	b.ReplaceInitiative(next)
	return next, nil
}

func (s *initiativeService) Close(ctx context.Context, b *state.Board, id string) (closed *domain.Initiative, err error) {
	fields := map[string]any{"initiative_id": id}
	defer func(start time.Time) { observe(ctx, s.observer, "initiative-close", start, fields, err) }(time.Now())

	current, err := requireInitiative(b, id)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	if err = next.Close(time.Now()); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, "closing initiative", func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteInitiativeRepo(tx).Update(ctx, next)
	})
	if err != nil {
		return nil, err
	}
	b.ReplaceInitiative(next)
	return next, nil
}

// Delete removes the initiative and its blocks in one transaction, children
// first.
func (s *initiativeService) Delete(ctx context.Context, b *state.Board, id string) (err error) {
	fields := map[string]any{"initiative_id": id}
	defer func(start time.Time) { observe(ctx, s.observer, "initiative-delete", start, fields, err) }(time.Now())

	i, err := requireInitiative(b, id)
	if err != nil {
		return err
	}
	if i.IsClosed() {
		return fmt.Errorf("%w: %q is kept for reporting and cannot be deleted", domain.ErrInitiativeClosed, i.Name)
	}
	blocks := b.BlocksOf(id)
	for _, blk := range blocks {
		if c, ok := closedDayIn(b, blk.StartDate, blk.EndDate); ok {
			return fmt.Errorf("%w: %q has hours on %s", domain.ErrDayClosed, i.Name, c.Key())
		}
	}
	fields["blocks"] = len(blocks)

	err = s.uow.WithinTx(ctx, "deleting initiative", func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteBlockRepo(tx).DeleteByInitiative(ctx, id); err != nil {
			return err
		}
		return repository.NewSQLiteInitiativeRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	b.RemoveInitiative(id)
	return nil
}

func (s *initiativeService) Get(b *state.Board, id string) (*domain.Initiative, error) {
	return requireInitiative(b, id)
}

// List returns initiatives in creation order.
func (s *initiativeService) List(b *state.Board, filter domain.InitiativeFilter) []*domain.Initiative {
	out := []*domain.Initiative{}
	for _, i := range b.Initiatives {
		if filter.Matches(i) {
			out = append(out, i)
		}
	}
	return out
}
