package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
)

type InitiativeRepo interface {
	Create(ctx context.Context, i *domain.Initiative) error
	GetByID(ctx context.Context, id string) (*domain.Initiative, error)
	List(ctx context.Context) ([]*domain.Initiative, error)
	Update(ctx context.Context, i *domain.Initiative) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type BlockRepo interface {
	Create(ctx context.Context, b *domain.ScheduledBlock) error
	GetByID(ctx context.Context, id string) (*domain.ScheduledBlock, error)
	List(ctx context.Context) ([]*domain.ScheduledBlock, error)
	ListByInitiative(ctx context.Context, initiativeID string) ([]*domain.ScheduledBlock, error)
	ListCovering(ctx context.Context, date time.Time) ([]*domain.ScheduledBlock, error)
	Update(ctx context.Context, b *domain.ScheduledBlock) error
	Delete(ctx context.Context, id string) error
	DeleteByInitiative(ctx context.Context, initiativeID string) (int, error)
	DeleteAll(ctx context.Context) error
}

type ClosedDayRepo interface {
	Create(ctx context.Context, c *domain.ClosedDay) error
	GetByDate(ctx context.Context, date time.Time) (*domain.ClosedDay, error)
	List(ctx context.Context) ([]*domain.ClosedDay, error)
	DeleteByDate(ctx context.Context, date time.Time) error
	DeleteAll(ctx context.Context) error
}
