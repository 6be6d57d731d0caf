package service

import (
	"context"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/snapshot"
	"github.com/alexanderramin/planboard/internal/state"
)

// Every mutating operation checks domain rules against the board first,
// writes through the unit of work, and only then updates the board. A failed
// call leaves the board exactly as it was.

type InitiativeService interface {
	Create(ctx context.Context, b *state.Board, in domain.InitiativeInput) (*domain.Initiative, error)
	Update(ctx context.Context, b *state.Board, id string, in domain.InitiativeInput) (*domain.Initiative, error)
	Close(ctx context.Context, b *state.Board, id string) (*domain.Initiative, error)
	Delete(ctx context.Context, b *state.Board, id string) error
	Get(b *state.Board, id string) (*domain.Initiative, error)
	List(b *state.Board, filter domain.InitiativeFilter) []*domain.Initiative
}

type ScheduleService interface {
	Schedule(ctx context.Context, b *state.Board, initiativeID string, date time.Time) (*domain.ScheduledBlock, error)
	Move(ctx context.Context, b *state.Board, blockID string, newStart time.Time) (*domain.ScheduledBlock, error)
	Resize(ctx context.Context, b *state.Board, blockID string, newEnd time.Time) (*domain.ScheduledBlock, error)
	Extend(ctx context.Context, b *state.Board, blockID string) (*domain.ScheduledBlock, error)
	Shrink(ctx context.Context, b *state.Board, blockID string) (*domain.ScheduledBlock, error)
	UpdateHours(ctx context.Context, b *state.Board, blockID string, date time.Time, hours float64) (*domain.ScheduledBlock, error)
	Remove(ctx context.Context, b *state.Board, blockID string) error
	Duplicate(ctx context.Context, b *state.Board, blockID string, targets []DuplicateTarget, mode domain.DuplicateMode) (*DuplicateResult, error)

	ListBlocks(b *state.Board, initiativeID string) []*domain.ScheduledBlock
	BlocksInRange(b *state.Board, from, to time.Time) []*domain.ScheduledBlock
	EditableBlock(b *state.Board, blockID string) error
	CoveredDates(b *state.Board, initiativeID string) []time.Time
}

// DuplicateTarget is one requested copy of a block.
type DuplicateTarget struct {
	Date  time.Time
	Hours float64
}

// DuplicateSkip is a target that was not created, with the reason.
type DuplicateSkip struct {
	Date time.Time
	Err  error
}

// DuplicateResult lists the blocks created by a duplicate batch and the
// targets that were rejected.
type DuplicateResult struct {
	Created []*domain.ScheduledBlock
	Skipped []DuplicateSkip
}

type LedgerService interface {
	CloseDay(ctx context.Context, b *state.Board, date time.Time) (*domain.ClosedDay, error)
	ReopenDay(ctx context.Context, b *state.Board, date time.Time) error
	IsClosed(b *state.Board, date time.Time) bool
	List(b *state.Board) []*domain.ClosedDay
}

type BoardService interface {
	Load(ctx context.Context) (*state.Board, error)
	Reset(ctx context.Context, b *state.Board) error
}

// ImportResult counts what an import wrote.
type ImportResult struct {
	Initiatives int
	Blocks      int
	ClosedDays  int
}

type ImportService interface {
	Export(b *state.Board) *snapshot.Snapshot
	Import(ctx context.Context, b *state.Board, snap *snapshot.Snapshot) (*ImportResult, error)
}
