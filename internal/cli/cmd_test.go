package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/planboard/internal/config"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/alexanderramin/planboard/internal/state"
	"github.com/alexanderramin/planboard/internal/testutil"
	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow is Wednesday 2024-06-05.
var fixedNow = time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	return &App{
		Initiatives:   service.NewInitiativeService(uow),
		Schedule:      service.NewScheduleService(uow),
		Ledger:        service.NewLedgerService(uow),
		Boards:        service.NewBoardService(uow),
		Imports:       service.NewImportService(uow),
		Board:         state.New(),
		Config:        config.Default(":memory:"),
		ConfigPath:    filepath.Join(t.TempDir(), "config.toml"),
		Now:           func() time.Time { return fixedNow },
		IsInteractive: func() bool { return false },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

// onlyBlock returns the single block on the board.
func onlyBlock(t *testing.T, app *App) *domain.ScheduledBlock {
	t.Helper()
	require.Len(t, app.Board.Blocks, 1)
	return app.Board.Blocks[0]
}

// --- initiatives ---

func TestInitiativeAdd_WithFlags(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "initiative", "add", "API rewrite", "--estimate", "24", "--color", "#22c55e", "-d", "v2 endpoints")
	assert.Contains(t, out, "Created initiative API rewrite")

	require.Len(t, app.Board.Initiatives, 1)
	i := app.Board.Initiatives[0]
	assert.Equal(t, 24.0, i.Estimate())
	assert.Equal(t, "#22c55e", i.Color)
	assert.Equal(t, "v2 endpoints", i.Description)
}

func TestInitiativeAdd_NoNameNonInteractive(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "initiative", "add")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestInitiativeAdd_NoEstimateFlagMeansNoEstimate(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Docs")
	assert.False(t, app.Board.Initiatives[0].HasEstimate())
	assert.Equal(t, domain.DefaultColor, app.Board.Initiatives[0].Color)
}

func TestInitiativeList(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha", "-e", "8")
	mustExecute(t, app, "initiative", "add", "Beta")
	mustExecute(t, app, "initiative", "close", "Beta", "--yes")

	out := mustExecute(t, app, "initiative", "list")
	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "Beta")

	out = mustExecute(t, app, "initiative", "list", "--all")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Beta")

	out = mustExecute(t, app, "initiative", "ls", "--closed")
	assert.NotContains(t, out, "Alpha")
	assert.Contains(t, out, "Beta")
}

func TestInitiativeEdit_OnlyChangedFlags(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha", "-e", "8", "--icon", "🚀")

	mustExecute(t, app, "initiative", "edit", "alpha", "--name", "Alpha v2")
	i := app.Board.Initiatives[0]
	assert.Equal(t, "Alpha v2", i.Name)
	assert.Equal(t, 8.0, i.Estimate(), "estimate untouched")
	assert.Equal(t, "🚀", i.Icon)

	mustExecute(t, app, "initiative", "edit", "Alpha v2", "--clear-estimate")
	assert.False(t, app.Board.Initiatives[0].HasEstimate())
}

func TestInitiativeShow(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha", "-e", "16")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-03", "--until", "2024-06-04")
	mustExecute(t, app, "day", "close", "2024-06-03")

	out := mustExecute(t, app, "initiative", "show", "Alpha")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "16h")
	assert.Contains(t, out, "8h")
	assert.Contains(t, out, "06-03")
}

func TestInitiativeClose_BlocksFurtherPlanning(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	out := mustExecute(t, app, "initiative", "close", "Alpha", "--yes")
	assert.Contains(t, out, "Finalized Alpha")

	_, err := executeCmd(t, app, "schedule", "add", "Alpha", "2024-06-05")
	assert.ErrorIs(t, err, domain.ErrInitiativeClosed)

	_, err = executeCmd(t, app, "initiative", "close", "Alpha", "--yes")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInitiativeClose_ReviewRequiresConfirmation(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha", "-e", "16")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-03", "--until", "2024-06-04")
	mustExecute(t, app, "day", "close", "2024-06-03")

	out, err := executeCmd(t, app, "initiative", "close", "Alpha")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, out, "VARIANCE")
	assert.Contains(t, out, "pending")
	assert.False(t, app.Board.Initiatives[0].IsClosed())

	var asked []string
	app.IsInteractive = func() bool { return true }
	app.Confirm = func(title string) (bool, error) {
		asked = append(asked, title)
		return false, nil
	}
	out = mustExecute(t, app, "initiative", "close", "Alpha")
	assert.Contains(t, out, "ESTIMATE")
	assert.Contains(t, out, "Cancelled.")
	assert.Equal(t, []string{`Finalize "Alpha"? It can no longer be planned.`}, asked)
	assert.False(t, app.Board.Initiatives[0].IsClosed())

	app.Confirm = func(string) (bool, error) { return true, nil }
	out = mustExecute(t, app, "initiative", "close", "Alpha")
	assert.Contains(t, out, "Finalized Alpha: 8h consumed, variance pending")
	assert.Contains(t, out, "PENDING")
	assert.True(t, app.Board.Initiatives[0].IsClosed())
}

func TestInitiativeClose_YesSkipsReview(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha", "-e", "8")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-03")
	mustExecute(t, app, "day", "close", "2024-06-03")
	app.Confirm = func(string) (bool, error) {
		t.Fatal("confirmation requested despite --yes")
		return false, nil
	}

	out := mustExecute(t, app, "initiative", "close", "Alpha", "-y")
	assert.NotContains(t, out, "BLOCKS")
	assert.Contains(t, out, "variance 0h (+0%)")
	assert.Contains(t, out, "ON TARGET")
}

func TestInitiativeRemove(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-05")

	out := mustExecute(t, app, "initiative", "rm", "Alpha")
	assert.Contains(t, out, "Deleted initiative Alpha")
	assert.Empty(t, app.Board.Initiatives)
	assert.Empty(t, app.Board.Blocks)
}

func TestResolveInitiative(t *testing.T) {
	app := testApp(t)
	a := testutil.NewTestInitiative("Alpha")
	a.ID = "aaaa1111-0000-0000-0000-000000000000"
	b := testutil.NewTestInitiative("Beta")
	b.ID = "aaaa2222-0000-0000-0000-000000000000"
	twin := testutil.NewTestInitiative("beta")
	twin.ID = "bbbb3333-0000-0000-0000-000000000000"
	app.Board.AddInitiative(a)
	app.Board.AddInitiative(b)

	got, err := resolveInitiative(app, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	got, err = resolveInitiative(app, "ALPHA")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	got, err = resolveInitiative(app, "aaaa2")
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = resolveInitiative(app, "aaaa")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveInitiative(app, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	app.Board.AddInitiative(twin)
	_, err = resolveInitiative(app, "Beta")
	assert.ErrorContains(t, err, "2 initiatives are named")
}

// --- schedule ---

func TestScheduleAdd_DefaultsToToday(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")

	out := mustExecute(t, app, "schedule", "add", "Alpha")
	assert.Contains(t, out, "Scheduled Alpha")
	assert.Contains(t, out, "2024-06-05")

	blk := onlyBlock(t, app)
	assert.Equal(t, map[string]float64{"2024-06-05": 8}, blk.HoursPerDay)
}

func TestScheduleAdd_RelativeDateAndWeekend(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")

	mustExecute(t, app, "schedule", "add", "Alpha", "tomorrow")
	assert.Equal(t, "2024-06-06", workweek.Key(onlyBlock(t, app).StartDate))

	_, err := executeCmd(t, app, "schedule", "add", "Alpha", "2024-06-08")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = executeCmd(t, app, "schedule", "add", "Alpha", "June 8")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestScheduleMoveResizeExtendShrink(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-06", "--until", "2024-06-07")
	id := onlyBlock(t, app).ID

	out := mustExecute(t, app, "schedule", "move", id[:8], "2024-06-07")
	assert.Contains(t, out, "Moved Alpha")
	blk := onlyBlock(t, app)
	assert.Equal(t, "2024-06-10", workweek.Key(blk.EndDate), "two work days across the weekend")

	mustExecute(t, app, "schedule", "extend", id)
	assert.Equal(t, "2024-06-11", workweek.Key(onlyBlock(t, app).EndDate))

	mustExecute(t, app, "schedule", "shrink", id)
	mustExecute(t, app, "schedule", "shrink", id)
	assert.Equal(t, 1, onlyBlock(t, app).DurationWorkDays())

	_, err := executeCmd(t, app, "schedule", "shrink", id)
	assert.ErrorIs(t, err, domain.ErrValidation)

	mustExecute(t, app, "schedule", "resize", id, "2024-06-12")
	assert.Equal(t, 32.0, onlyBlock(t, app).TotalHours())

	_, err = executeCmd(t, app, "schedule", "resize", id, "2024-06-03")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestScheduleHours(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-05")
	id := onlyBlock(t, app).ID

	out := mustExecute(t, app, "schedule", "hours", id, "2024-06-05", "3.5h")
	assert.Contains(t, out, "Set 3.5h on 2024-06-05")

	mustExecute(t, app, "schedule", "hours", id, "2024-06-05", "30")
	assert.Equal(t, domain.MaxDailyHours, onlyBlock(t, app).HoursOn(testutil.Day("2024-06-05")), "clamped")

	_, err := executeCmd(t, app, "schedule", "hours", id, "2024-06-05", "lots")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestScheduleRemove(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-05")
	id := onlyBlock(t, app).ID

	mustExecute(t, app, "schedule", "rm", id)
	assert.Empty(t, app.Board.Blocks)

	_, err := executeCmd(t, app, "schedule", "rm", id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleDuplicate(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-03")
	id := onlyBlock(t, app).ID
	mustExecute(t, app, "schedule", "hours", id, "2024-06-03", "6")

	out := mustExecute(t, app, "schedule", "dup", id, "2024-06-04", "2024-06-08", "2024-06-10")
	assert.Contains(t, out, "2 block(s) created")
	assert.Contains(t, out, "1 date(s) skipped")
	assert.Contains(t, out, "2024-06-08")
	require.Len(t, app.Board.Blocks, 3)
	for _, blk := range app.Board.Blocks {
		assert.Equal(t, 6.0, blk.TotalHours(), "copies take the source's hours")
	}

	_, err := executeCmd(t, app, "schedule", "dup", id, "2024-06-11", "2024-06-04", "--all-or-nothing")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, app.Board.Blocks, 3)

	mustExecute(t, app, "schedule", "dup", id, "2024-06-12", "--hours", "2")
	assert.Len(t, app.Board.Blocks, 4)
}

func TestScheduleList(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "initiative", "add", "Beta")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-05")
	mustExecute(t, app, "schedule", "add", "Beta", "2024-07-15")

	out := mustExecute(t, app, "schedule", "list")
	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "Beta", "outside the default four weeks")

	out = mustExecute(t, app, "schedule", "list", "--from", "2024-07-01", "--to", "2024-07-31")
	assert.Contains(t, out, "Beta")

	out = mustExecute(t, app, "schedule", "list", "-i", "Beta", "--from", "2024-06-01", "--to", "2024-06-30")
	assert.Contains(t, out, "Nothing scheduled")

	_, err := executeCmd(t, app, "schedule", "list", "--from", "someday")
	assert.Error(t, err)
}

// --- days ---

func TestDayCloseAndReopen(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-05")
	id := onlyBlock(t, app).ID

	out := mustExecute(t, app, "day", "close")
	assert.Contains(t, out, "Closed")
	assert.Contains(t, out, "8h consumed")
	assert.True(t, app.Board.IsClosed(fixedNow))

	_, err := executeCmd(t, app, "schedule", "move", id, "2024-06-06")
	assert.ErrorIs(t, err, domain.ErrDayClosed)
	_, err = executeCmd(t, app, "schedule", "hours", id, "2024-06-05", "2")
	assert.ErrorIs(t, err, domain.ErrDayClosed)
	_, err = executeCmd(t, app, "day", "close", "today")
	assert.ErrorIs(t, err, domain.ErrConflict)

	out = mustExecute(t, app, "day", "list")
	assert.Contains(t, out, "Wed 06-05")

	out = mustExecute(t, app, "day", "reopen", "2024-06-05")
	assert.Contains(t, out, "Reopened 2024-06-05")
	mustExecute(t, app, "schedule", "move", id, "2024-06-06")

	_, err = executeCmd(t, app, "day", "reopen", "2024-06-05")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDayClose_Weekend(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "day", "close", "2024-06-08")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// --- reports ---

func TestSummaryAndWeek(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha", "-e", "10")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-03", "--until", "2024-06-04")
	mustExecute(t, app, "day", "close", "2024-06-03")

	out := mustExecute(t, app, "summary")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "16h planned")
	assert.Contains(t, out, "8h consumed")

	out = mustExecute(t, app, "week")
	assert.Contains(t, out, "WEEK OF JUN 3, 2024")
	assert.Contains(t, out, "Alpha")

	out = mustExecute(t, app, "week", "--offset", "1", "--weeks", "2")
	assert.Contains(t, out, "WEEK OF JUN 10, 2024")
	assert.Contains(t, out, "WEEK OF JUN 17, 2024")
	assert.NotContains(t, out, "JUN 3,")
}

func TestFinalized_TextAndPDF(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha", "-e", "8")
	mustExecute(t, app, "schedule", "add", "Alpha", "2024-06-03")
	mustExecute(t, app, "day", "close", "2024-06-03")
	mustExecute(t, app, "initiative", "close", "Alpha", "--yes")

	out := mustExecute(t, app, "finalized")
	assert.Contains(t, out, "Alpha")

	path := filepath.Join(t.TempDir(), "finalized.pdf")
	out = mustExecute(t, app, "finalized", "--pdf", path)
	assert.Contains(t, out, "Wrote 1 finalized initiative(s)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

// --- data ---

func TestExportImportRoundTrip(t *testing.T) {
	src := testApp(t)
	mustExecute(t, src, "initiative", "add", "Alpha", "-e", "12")
	mustExecute(t, src, "schedule", "add", "Alpha", "2024-06-03", "--until", "2024-06-05")
	mustExecute(t, src, "day", "close", "2024-06-03")

	for _, name := range []string{"board.yaml", "board.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			mustExecute(t, src, "export", path)

			dst := testApp(t)
			out := mustExecute(t, dst, "import", path)
			assert.Contains(t, out, "Imported 1 initiatives, 1 blocks, 1 closed days")
			assert.Equal(t, src.Board.Initiatives[0].ID, dst.Board.Initiatives[0].ID)
			assert.Equal(t, src.Board.Blocks[0].HoursPerDay, dst.Board.Blocks[0].HoursPerDay)

			_, err := executeCmd(t, dst, "import", path)
			assert.ErrorIs(t, err, domain.ErrConflict, "store is no longer empty")
		})
	}
}

func TestExport_Stdout(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")

	out := mustExecute(t, app, "export")
	assert.Contains(t, out, "version: 1")
	assert.Contains(t, out, "name: Alpha")

	out = mustExecute(t, app, "export", "--format", "json")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))

	_, err := executeCmd(t, app, "export", "--format", "xml")
	assert.Error(t, err)
}

func TestImport_Stdin(t *testing.T) {
	app := testApp(t)
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetIn(strings.NewReader("version: 1\ninitiatives:\n  - name: From stdin\n"))
	root.SetArgs([]string{"import", "-"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "From stdin", app.Board.Initiatives[0].Name)
}

func TestImport_Invalid(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 99\n"), 0o644))

	_, err := executeCmd(t, app, "import", path)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, app.Board.Initiatives)

	_, err = executeCmd(t, app, "import", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReset(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Alpha")
	mustExecute(t, app, "schedule", "add", "Alpha")

	_, err := executeCmd(t, app, "reset")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, app.Board.Initiatives, 1)

	out := mustExecute(t, app, "reset", "--yes")
	assert.Contains(t, out, "Board reset.")
	assert.Empty(t, app.Board.Initiatives)
	assert.Empty(t, app.Board.Blocks)
}

// --- root ---

func TestRoot_LoadsBoardWhenMissing(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "initiative", "add", "Persisted")

	app.Board = nil
	out := mustExecute(t, app, "initiative", "list")
	assert.Contains(t, out, "Persisted")
	require.NotNil(t, app.Board)
}

func TestConfigCommands(t *testing.T) {
	app := testApp(t)
	app.Board = nil

	out := mustExecute(t, app, "config", "show")
	assert.Contains(t, out, "[board]")
	assert.Contains(t, out, "weeks = 4")
	assert.Nil(t, app.Board, "config commands do not load the board")

	out = mustExecute(t, app, "config", "path")
	assert.Contains(t, out, app.ConfigPath)

	mustExecute(t, app, "config", "init")
	loaded, err := config.Load(app.ConfigPath, config.Default("other.db"))
	require.NoError(t, err)
	assert.Equal(t, ":memory:", loaded.Database.Path)

	_, err = executeCmd(t, app, "config", "init")
	assert.ErrorContains(t, err, "already exists")
}

func TestBoard_RequiresTerminal(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "board")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
