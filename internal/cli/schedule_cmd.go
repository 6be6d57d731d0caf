package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"s", "block"},
		Short:   "Place and adjust blocks of hours on the calendar",
	}

	cmd.AddCommand(
		newScheduleAddCmd(app),
		newScheduleMoveCmd(app),
		newScheduleResizeCmd(app),
		newScheduleExtendCmd(app),
		newScheduleShrinkCmd(app),
		newScheduleHoursCmd(app),
		newScheduleRemoveCmd(app),
		newScheduleDuplicateCmd(app),
		newScheduleListCmd(app),
	)

	return cmd
}

func printBlock(cmd *cobra.Command, verb string, app *App, blk *domain.ScheduledBlock) {
	name := blk.InitiativeID
	if i, ok := app.Board.Initiative(blk.InitiativeID); ok {
		name = i.Name
	}
	span := workweek.Key(blk.StartDate)
	if !workweek.SameDay(blk.StartDate, blk.EndDate) {
		span += ".." + workweek.Key(blk.EndDate)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s (%s)\n",
		verb, name, formatter.TruncID(blk.ID), span, formatter.Hours(blk.TotalHours()))
}

func newScheduleAddCmd(app *App) *cobra.Command {
	var until time.Time

	cmd := &cobra.Command{
		Use:   "add INITIATIVE [DATE]",
		Short: "Schedule a one-day block, today by default",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := resolveInitiative(app, args[0])
			if err != nil {
				return err
			}
			date := app.today()
			if len(args) == 2 {
				if date, err = parseDate(args[1], app.now()); err != nil {
					return fmt.Errorf("%w: %v", domain.ErrValidation, err)
				}
			}

			blk, err := app.Schedule.Schedule(cmd.Context(), app.Board, i.ID, date)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("until") {
				if blk, err = app.Schedule.Resize(cmd.Context(), app.Board, blk.ID, until); err != nil {
					return fmt.Errorf("scheduled %s but could not extend it: %w", workweek.Key(date), err)
				}
			}
			printBlock(cmd, "Scheduled", app, blk)
			return nil
		},
	}

	cmd.Flags().Var(newDateValue(&until, app.now), "until", "Last day of the block (inclusive)")

	return cmd
}

func newScheduleMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move BLOCK DATE",
		Short: "Move a block to a new start date, keeping its length in work days",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			blk, err := resolveBlock(app, args[0])
			if err != nil {
				return err
			}
			date, err := parseDate(args[1], app.now())
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			moved, err := app.Schedule.Move(cmd.Context(), app.Board, blk.ID, date)
			if err != nil {
				return err
			}
			printBlock(cmd, "Moved", app, moved)
			return nil
		},
	}
}

func newScheduleResizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resize BLOCK END",
		Short: "Change a block's last day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			blk, err := resolveBlock(app, args[0])
			if err != nil {
				return err
			}
			end, err := parseDate(args[1], app.now())
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			resized, err := app.Schedule.Resize(cmd.Context(), app.Board, blk.ID, end)
			if err != nil {
				return err
			}
			printBlock(cmd, "Resized", app, resized)
			return nil
		},
	}
}

func newScheduleExtendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "extend BLOCK",
		Short: "Grow a block by one work day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blk, err := resolveBlock(app, args[0])
			if err != nil {
				return err
			}
			extended, err := app.Schedule.Extend(cmd.Context(), app.Board, blk.ID)
			if err != nil {
				return err
			}
			printBlock(cmd, "Extended", app, extended)
			return nil
		},
	}
}

func newScheduleShrinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shrink BLOCK",
		Short: "Drop a block's last work day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blk, err := resolveBlock(app, args[0])
			if err != nil {
				return err
			}
			shrunk, err := app.Schedule.Shrink(cmd.Context(), app.Board, blk.ID)
			if err != nil {
				return err
			}
			printBlock(cmd, "Shrunk", app, shrunk)
			return nil
		},
	}
}

func newScheduleHoursCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hours BLOCK DATE HOURS",
		Short: "Set the hours a block allocates on one day",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			blk, err := resolveBlock(app, args[0])
			if err != nil {
				return err
			}
			date, err := parseDate(args[1], app.now())
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			hours, err := parseHours(args[2])
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			updated, err := app.Schedule.UpdateHours(cmd.Context(), app.Board, blk.ID, date, hours)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s on %s (block total %s)\n",
				formatter.Hours(updated.HoursOn(date)), workweek.Key(date), formatter.Hours(updated.TotalHours()))
			return nil
		},
	}
}

func newScheduleRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm BLOCK",
		Aliases: []string{"remove"},
		Short:   "Remove a block",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blk, err := resolveBlock(app, args[0])
			if err != nil {
				return err
			}
			if err := app.Schedule.Remove(cmd.Context(), app.Board, blk.ID); err != nil {
				return err
			}
			printBlock(cmd, "Removed", app, blk)
			return nil
		},
	}
}

func newScheduleDuplicateCmd(app *App) *cobra.Command {
	var hours float64
	var allOrNothing bool

	cmd := &cobra.Command{
		Use:     "dup BLOCK DATE...",
		Aliases: []string{"duplicate"},
		Short:   "Copy a block as one-day blocks onto other dates",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			blk, err := resolveBlock(app, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("hours") {
				hours = blk.HoursOn(blk.StartDate)
				if hours == 0 {
					hours = domain.DefaultDailyHours
				}
			}

			targets := make([]service.DuplicateTarget, 0, len(args)-1)
			for _, a := range args[1:] {
				d, err := parseDate(a, app.now())
				if err != nil {
					return fmt.Errorf("%w: %v", domain.ErrValidation, err)
				}
				targets = append(targets, service.DuplicateTarget{Date: d, Hours: hours})
			}

			mode := domain.DuplicateBestEffort
			if allOrNothing {
				mode = domain.DuplicateAllOrNothing
			}
			res, err := app.Schedule.Duplicate(cmd.Context(), app.Board, blk.ID, targets, mode)
			if err != nil {
				return err
			}

			skipped := make([]formatter.DuplicateSkip, 0, len(res.Skipped))
			for _, s := range res.Skipped {
				skipped = append(skipped, formatter.DuplicateSkip{Date: workweek.Key(s.Date), Reason: s.Err.Error()})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDuplicateResult(res.Created, skipped))
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours per copy (default: the block's first day)")
	cmd.Flags().BoolVar(&allOrNothing, "all-or-nothing", false, "Fail the whole batch if any date is rejected")

	return cmd
}

func newScheduleListCmd(app *App) *cobra.Command {
	var from, to time.Time
	var initiative string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List blocks, by default over the configured number of weeks",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("from") {
				from = workweek.WeekStart(app.today())
			}
			if !flags.Changed("to") {
				to = from.AddDate(0, 0, 7*app.weeks()-1)
			}

			var blocks []*domain.ScheduledBlock
			if initiative != "" {
				i, err := resolveInitiative(app, initiative)
				if err != nil {
					return err
				}
				for _, blk := range app.Schedule.ListBlocks(app.Board, i.ID) {
					if blk.OverlapsRange(from, to) {
						blocks = append(blocks, blk)
					}
				}
			} else {
				blocks = app.Schedule.BlocksInRange(app.Board, from, to)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBlockList(blocks, app.Board.Initiative, app.Board.ClosedSet()))
			return nil
		},
	}

	cmd.Flags().Var(newDateValue(&from, app.now), "from", "First day (default: this week's Monday)")
	cmd.Flags().Var(newDateValue(&to, app.now), "to", "Last day")
	cmd.Flags().StringVarP(&initiative, "initiative", "i", "", "Only this initiative")

	return cmd
}
