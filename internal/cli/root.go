package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/config"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/alexanderramin/planboard/internal/state"
	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/spf13/cobra"
)

// skipBoardAnnotation marks commands that run without loading the board.
const skipBoardAnnotation = "planboard/skip-board"

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Initiatives service.InitiativeService
	Schedule    service.ScheduleService
	Ledger      service.LedgerService
	Boards      service.BoardService
	Imports     service.ImportService

	// Board is loaded on first use and shared by every command of a run.
	Board *state.Board

	Config     config.Config
	ConfigPath string

	// Now, IsInteractive and Confirm are replaced in tests. A nil Confirm
	// asks through a huh form.
	Now           func() time.Time
	IsInteractive func() bool
	Confirm       func(title string) (bool, error)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) today() time.Time {
	return workweek.Today(a.now())
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	confirmed := false
	if err := wizardConfirm(title, &confirmed).Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

func (a *App) capacity() float64 {
	if a.Config.Board.DailyCapacityHours > 0 {
		return a.Config.Board.DailyCapacityHours
	}
	return 8
}

func (a *App) weeks() int {
	if a.Config.Board.Weeks > 0 {
		return a.Config.Board.Weeks
	}
	return 4
}

// NewRootCmd creates the top-level "planboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planboard",
		Short:         "Weekly capacity planner for initiatives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Board != nil || skipsBoard(cmd) {
				return nil
			}
			b, err := app.Boards.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading board: %w", err)
			}
			app.Board = b
			return nil
		},
	}

	root.AddCommand(
		newInitiativeCmd(app),
		newScheduleCmd(app),
		newDayCmd(app),
		newSummaryCmd(app),
		newWeekCmd(app),
		newFinalizedCmd(app),
		newBoardCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newResetCmd(app),
		newConfigCmd(app),
	)

	return root
}

func skipsBoard(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipBoardAnnotation] == "true" {
			return true
		}
	}
	return false
}
