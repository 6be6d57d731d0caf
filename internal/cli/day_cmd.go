package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/spf13/cobra"
)

func newDayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Close days to freeze their hours, or reopen them",
	}

	cmd.AddCommand(
		newDayCloseCmd(app),
		newDayReopenCmd(app),
		newDayListCmd(app),
	)

	return cmd
}

func dayArg(app *App, args []string) (time.Time, error) {
	if len(args) == 0 {
		return app.today(), nil
	}
	d, err := parseDate(args[0], app.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return d, nil
}

func newDayCloseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "close [DATE]",
		Short: "Close a day, today by default, recording its scheduled hours as consumed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dayArg(app, args)
			if err != nil {
				return err
			}
			c, err := app.Ledger.CloseDay(cmd.Context(), app.Board, date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatClosedDay(c, app.Board.Initiative))
			return nil
		},
	}
}

func newDayReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen [DATE]",
		Short: "Reopen a closed day, discarding its consumed snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dayArg(app, args)
			if err != nil {
				return err
			}
			if err := app.Ledger.ReopenDay(cmd.Context(), app.Board, date); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", workweek.Key(date))
			return nil
		},
	}
}

func newDayListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List closed days",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatClosedDays(app.Ledger.List(app.Board), app.Board.Initiative))
			return nil
		},
	}
}
