package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/teatest"
	"github.com/alexanderramin/planboard/internal/workweek"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoardDriver(t *testing.T, app *App, opts ...teatest.Option) (*teatest.Driver, func() *boardModel) {
	t.Helper()
	d := teatest.New(t, newBoardModel(context.Background(), app), opts...)
	return d, func() *boardModel { return d.Model.(*boardModel) }
}

func TestBoardModel_StartsOnToday(t *testing.T) {
	app := testApp(t)
	d, m := newBoardDriver(t, app)

	assert.Equal(t, "2024-06-03", workweek.Key(m().week))
	assert.Equal(t, "2024-06-05", workweek.Key(m().selectedDate()))
	assert.Contains(t, d.View(), "WEEK OF JUN 3, 2024")
	assert.Contains(t, d.View(), "no active initiatives")
}

func TestBoardModel_Navigation(t *testing.T) {
	app := testApp(t)
	d, m := newBoardDriver(t, app)

	d.PressType(tea.KeyRight, 2)
	assert.Equal(t, "2024-06-07", workweek.Key(m().selectedDate()))

	d.Press("l")
	assert.Equal(t, "2024-06-10", workweek.Key(m().selectedDate()), "wraps into next week")

	d.Press("h")
	assert.Equal(t, "2024-06-07", workweek.Key(m().selectedDate()))

	d.Press("]]")
	assert.Equal(t, "2024-06-21", workweek.Key(m().selectedDate()))

	d.Press("t")
	assert.Equal(t, "2024-06-05", workweek.Key(m().selectedDate()))
}

func TestBoardModel_ScheduleExtendRemove(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "initiative", "add", "Beta")
	d, m := newBoardDriver(t, app)

	assert.Contains(t, d.View(), "Alpha")
	d.PressType(tea.KeyTab, 1)
	assert.Equal(t, "Beta", m().pickedInitiative().Name)

	d.Press("a")
	require.NoError(t, m().err)
	blk := onlyBlock(t, app)
	assert.Equal(t, "2024-06-05", workweek.Key(blk.StartDate))
	assert.Contains(t, d.View(), "Scheduled Beta")

	d.Press("a")
	assert.ErrorIs(t, m().err, domain.ErrConflict)
	assert.Contains(t, d.View(), "✗")

	d.Press("+")
	require.NoError(t, m().err)
	assert.Equal(t, "2024-06-06", workweek.Key(onlyBlock(t, app).EndDate))

	d.Press("-")
	require.NoError(t, m().err)
	assert.Equal(t, 1, onlyBlock(t, app).DurationWorkDays())

	d.Press("x")
	require.NoError(t, m().err)
	assert.Empty(t, app.Board.Blocks)
}

func TestBoardModel_CloseAndReopenDay(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha")
	d, m := newBoardDriver(t, app)

	d.Press("c")
	require.NoError(t, m().err)
	assert.True(t, app.Board.IsClosed(fixedNow))
	assert.Contains(t, m().status, "8h consumed")

	d.Press("x")
	assert.ErrorIs(t, m().err, domain.ErrDayClosed)
	assert.Len(t, app.Board.Blocks, 1)

	d.Press("o")
	require.NoError(t, m().err)
	assert.False(t, app.Board.IsClosed(fixedNow))
}

func TestBoardModel_ScheduleWithoutInitiatives(t *testing.T) {
	app := testApp(t)
	d, m := newBoardDriver(t, app)
	d.Press("a")
	assert.ErrorContains(t, m().err, "create an initiative first")
}

func TestBoardModel_HelpAndQuit(t *testing.T) {
	app := testApp(t)
	d, m := newBoardDriver(t, app, teatest.WithSize(140, 40))

	d.Press("?")
	assert.True(t, m().help.ShowAll)
	assert.Contains(t, d.View(), "reopen day")

	d.Press("q")
	assert.True(t, d.Quitting)
}

func TestBoardModel_MoveBlock(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha")
	d, m := newBoardDriver(t, app)

	d.Press("m")
	assert.Equal(t, modeMove, m().mode)
	assert.Contains(t, d.View(), "Moving Alpha")

	d.Press("ll")
	d.Press("x")
	assert.Len(t, app.Board.Blocks, 1, "other actions wait until the block is dropped")

	d.PressType(tea.KeyEnter, 1)
	require.NoError(t, m().err)
	assert.Equal(t, modeBrowse, m().mode)
	blk := onlyBlock(t, app)
	assert.Equal(t, "2024-06-07", workweek.Key(blk.StartDate))
	assert.Contains(t, d.View(), "Moved Alpha to Fri 06-07")
	assert.Equal(t, blk.ID, m().selectedBlock().ID)
}

func TestBoardModel_MoveOntoClosedDayFails(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha")
	mustExecute(t, app, "day", "close", "2024-06-06")
	d, m := newBoardDriver(t, app)

	d.Press("ml")
	d.PressType(tea.KeyEnter, 1)
	assert.ErrorIs(t, m().err, domain.ErrDayClosed)
	assert.Equal(t, "2024-06-05", workweek.Key(onlyBlock(t, app).StartDate))
}

func TestBoardModel_CancelCarry(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha")
	d, m := newBoardDriver(t, app)

	d.Press("dl")
	assert.Equal(t, modeDuplicate, m().mode)
	d.PressType(tea.KeyEsc, 1)
	assert.Equal(t, modeBrowse, m().mode)
	assert.False(t, d.Quitting, "esc cancels instead of quitting")

	d.PressType(tea.KeyEnter, 1)
	assert.Len(t, app.Board.Blocks, 1)
}

func TestBoardModel_DuplicateBlock(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha")
	_, err := app.Schedule.UpdateHours(context.Background(), app.Board, onlyBlock(t, app).ID, fixedNow, 3)
	require.NoError(t, err)
	d, m := newBoardDriver(t, app)

	d.Press("d")
	d.Press("]")
	d.PressType(tea.KeyEnter, 1)
	require.NoError(t, m().err)
	require.Len(t, app.Board.Blocks, 2)
	copied := app.Board.Blocks[1]
	assert.Equal(t, "2024-06-12", workweek.Key(copied.StartDate))
	assert.Equal(t, 3.0, copied.HoursOn(copied.StartDate))
	assert.Contains(t, d.View(), "Duplicated Alpha to Wed 06-12")

	d.Press("d")
	d.PressType(tea.KeyEnter, 1)
	assert.ErrorIs(t, m().err, domain.ErrConflict, "a copy onto its own day is skipped")
	assert.Len(t, app.Board.Blocks, 2)
}

func TestBoardModel_EditHours(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha")
	d, m := newBoardDriver(t, app)

	d.Press("e")
	assert.Equal(t, modeHours, m().mode)
	assert.Equal(t, "8", m().input.Value())

	d.PressType(tea.KeyBackspace, 1)
	d.Press("4.5q")
	assert.False(t, d.Quitting, "keys go to the hours field")
	d.PressType(tea.KeyBackspace, 1)
	d.PressType(tea.KeyEnter, 1)
	require.NoError(t, m().err)
	assert.Equal(t, 4.5, onlyBlock(t, app).HoursOn(fixedNow))
	assert.Contains(t, d.View(), "Set 4.5h on Wed 06-05")

	d.Press("e")
	d.PressType(tea.KeyBackspace, 3)
	d.Press("abc")
	d.PressType(tea.KeyEnter, 1)
	assert.ErrorContains(t, m().err, "invalid hours")
	assert.Equal(t, 4.5, onlyBlock(t, app).HoursOn(fixedNow))

	d.Press("e")
	d.PressType(tea.KeyEsc, 1)
	assert.Equal(t, modeBrowse, m().mode)
	assert.Equal(t, "Cancelled", m().status)
}
