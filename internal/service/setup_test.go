package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/state"
	"github.com/alexanderramin/planboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected storage failure")

type testEnv struct {
	ctx         context.Context
	db          *sql.DB
	uow         db.UnitOfWork
	board       *state.Board
	initiatives InitiativeService
	schedule    ScheduleService
	ledger      LedgerService
	boards      BoardService
	imports     ImportService
}

func newTestEnv(t *testing.T, observers ...UseCaseObserver) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	return &testEnv{
		ctx:         context.Background(),
		db:          database,
		uow:         uow,
		board:       state.New(),
		initiatives: NewInitiativeService(uow, observers...),
		schedule:    NewScheduleService(uow, observers...),
		ledger:      NewLedgerService(uow, observers...),
		boards:      NewBoardService(uow, observers...),
		imports:     NewImportService(uow, observers...),
	}
}

func day(s string) time.Time { return testutil.Day(s) }

func (e *testEnv) addInitiative(t *testing.T, name string, estimate ...float64) *domain.Initiative {
	t.Helper()
	in := domain.InitiativeInput{Name: name}
	if len(estimate) > 0 {
		in.EstimatedHours = domain.Float64Ptr(estimate[0])
	}
	i, err := e.initiatives.Create(e.ctx, e.board, in)
	require.NoError(t, err)
	return i
}

// addBlock schedules date and resizes the block to end.
func (e *testEnv) addBlock(t *testing.T, initiativeID, start, end string) *domain.ScheduledBlock {
	t.Helper()
	blk, err := e.schedule.Schedule(e.ctx, e.board, initiativeID, day(start))
	require.NoError(t, err)
	if end != start {
		blk, err = e.schedule.Resize(e.ctx, e.board, blk.ID, day(end))
		require.NoError(t, err)
	}
	return blk
}

func (e *testEnv) closeDay(t *testing.T, date string) *domain.ClosedDay {
	t.Helper()
	c, err := e.ledger.CloseDay(e.ctx, e.board, day(date))
	require.NoError(t, err)
	return c
}

// reload reads the store back into a fresh board.
func (e *testEnv) reload(t *testing.T) *state.Board {
	t.Helper()
	b, err := NewBoardService(e.uow).Load(e.ctx)
	require.NoError(t, err)
	return b
}

func (e *testEnv) storedBlock(t *testing.T, id string) *domain.ScheduledBlock {
	t.Helper()
	blk, err := repository.NewSQLiteBlockRepo(e.db).GetByID(e.ctx, id)
	require.NoError(t, err)
	return blk
}

// failing returns a service environment sharing e's store whose writes fail
// on the nth exec.
func (e *testEnv) failing(n int32) db.UnitOfWork {
	return &testutil.FailOnNthExecUoW{DB: e.db, FailOn: n, Err: errInjected}
}
