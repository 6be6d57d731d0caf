package cli

import (
	"fmt"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/metrics"
	"github.com/spf13/cobra"
)

func newInitiativeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initiative",
		Aliases: []string{"init", "i"},
		Short:   "Manage initiatives",
	}

	cmd.AddCommand(
		newInitiativeAddCmd(app),
		newInitiativeListCmd(app),
		newInitiativeShowCmd(app),
		newInitiativeEditCmd(app),
		newInitiativeCloseCmd(app),
		newInitiativeRemoveCmd(app),
	)

	return cmd
}

func newInitiativeAddCmd(app *App) *cobra.Command {
	var description, color, icon string
	var estimate float64

	cmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Create an initiative",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.InitiativeInput
			switch {
			case len(args) == 1:
				in = domain.InitiativeInput{
					Name:        args[0],
					Description: description,
					Color:       color,
					Icon:        icon,
				}
				if cmd.Flags().Changed("estimate") {
					in.EstimatedHours = &estimate
				}
			case app.interactive():
				var values initiativeFormValues
				if err := wizardInitiative(&values).Run(); err != nil {
					return err
				}
				var err error
				if in, err = values.input(); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: initiative name is required", domain.ErrValidation)
			}

			i, err := app.Initiatives.Create(cmd.Context(), app.Board, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created initiative %s %s\n", i.Name, formatter.TruncID(i.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&color, "color", "", "Hex color, e.g. #22c55e")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon shown next to the name")
	cmd.Flags().Float64VarP(&estimate, "estimate", "e", 0, "Estimated effort in hours")

	return cmd
}

func newInitiativeListCmd(app *App) *cobra.Command {
	var all, closed bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List initiatives",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.FilterActive
			switch {
			case all:
				filter = domain.FilterAll
			case closed:
				filter = domain.FilterClosed
			}

			initiatives := app.Initiatives.List(app.Board, filter)
			rows := make([]metrics.InitiativeMetrics, 0, len(initiatives))
			for _, i := range initiatives {
				rows = append(rows, metrics.ForInitiative(app.Board, i))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInitiativeList(rows))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include finalized initiatives")
	cmd.Flags().BoolVar(&closed, "closed", false, "Show only finalized initiatives")
	cmd.MarkFlagsMutuallyExclusive("all", "closed")

	return cmd
}

func newInitiativeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show INITIATIVE",
		Aliases: []string{"review"},
		Short:   "Show an initiative's hours, variance and blocks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := resolveInitiative(app, args[0])
			if err != nil {
				return err
			}
			m := metrics.ForInitiative(app.Board, i)
			blocks := app.Schedule.ListBlocks(app.Board, i.ID)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInitiativeReview(m, blocks, app.Board.ClosedSet(), app.now()))
			return nil
		},
	}
}

func newInitiativeEditCmd(app *App) *cobra.Command {
	var name, description, color, icon string
	var estimate float64
	var clearEstimate bool

	cmd := &cobra.Command{
		Use:   "edit INITIATIVE",
		Short: "Change an initiative's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := resolveInitiative(app, args[0])
			if err != nil {
				return err
			}

			in := domain.InitiativeInput{
				Name:           i.Name,
				Description:    i.Description,
				Color:          i.Color,
				Icon:           i.Icon,
				EstimatedHours: i.EstimatedHours,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = name
			}
			if flags.Changed("description") {
				in.Description = description
			}
			if flags.Changed("color") {
				in.Color = color
			}
			if flags.Changed("icon") {
				in.Icon = icon
			}
			if flags.Changed("estimate") {
				in.EstimatedHours = &estimate
			}
			if clearEstimate {
				in.EstimatedHours = nil
			}

			updated, err := app.Initiatives.Update(cmd.Context(), app.Board, i.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated initiative %s\n", updated.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&color, "color", "", "New hex color")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon")
	cmd.Flags().Float64VarP(&estimate, "estimate", "e", 0, "New estimate in hours")
	cmd.Flags().BoolVar(&clearEstimate, "clear-estimate", false, "Remove the estimate")
	cmd.MarkFlagsMutuallyExclusive("estimate", "clear-estimate")

	return cmd
}

func newInitiativeCloseCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "close INITIATIVE",
		Aliases: []string{"finalize"},
		Short:   "Review and finalize an initiative; it stays for reporting but can no longer be planned",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := resolveInitiative(app, args[0])
			if err != nil {
				return err
			}
			if i.IsClosed() {
				return fmt.Errorf("%w: %q is already finalized", domain.ErrConflict, i.Name)
			}

			if !yes {
				m := metrics.ForInitiative(app.Board, i)
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInitiativeReview(m, app.Board.BlocksOf(i.ID), app.Board.ClosedSet(), app.now()))
				if !app.interactive() {
					return fmt.Errorf("%w: finalizing %q cannot be undone; pass --yes to confirm", domain.ErrValidation, i.Name)
				}
				confirmed, err := app.confirm(fmt.Sprintf("Finalize %q? It can no longer be planned.", i.Name))
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			closed, err := app.Initiatives.Close(cmd.Context(), app.Board, i.ID)
			if err != nil {
				return err
			}
			m := metrics.ForInitiative(app.Board, closed)
			fmt.Fprintf(cmd.OutOrStdout(), "Finalized %s: %s consumed, variance %s, %s\n",
				closed.Name, formatter.Hours(m.Consumed), formatter.VarianceCell(m), formatter.AccuracyPill(m.Accuracy))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Finalize without the review and confirmation")

	return cmd
}

func newInitiativeRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm INITIATIVE",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete an initiative and its blocks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := resolveInitiative(app, args[0])
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				title := fmt.Sprintf("Delete %q and its %d block(s)?", i.Name, len(app.Board.BlocksOf(i.ID)))
				confirmed, err := app.confirm(title)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := app.Initiatives.Delete(cmd.Context(), app.Board, i.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted initiative %s\n", i.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
