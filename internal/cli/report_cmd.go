package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/metrics"
	"github.com/alexanderramin/planboard/internal/report"
	"github.com/alexanderramin/planboard/internal/workweek"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Planned, consumed and pending hours across active initiatives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSummary(metrics.Summarize(app.Board)))
			return nil
		},
	}
}

func newWeekCmd(app *App) *cobra.Command {
	var offset, weeks int

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Daily load against capacity for the current week",
		RunE: func(cmd *cobra.Command, args []string) error {
			if weeks <= 0 {
				weeks = 1
			}
			today := app.today()
			start := workweek.WeekStart(today).AddDate(0, 0, 7*offset)
			for n, monday := range workweek.Weeks(start, weeks) {
				if n > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				load := metrics.WeekLoad(app.Board, monday, app.capacity())
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWeek(load, app.Board.Initiative, app.capacity(), today))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Weeks from the current one, negative for past weeks")
	cmd.Flags().IntVarP(&weeks, "weeks", "n", 1, "Number of weeks to show")

	return cmd
}

func newFinalizedCmd(app *App) *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "finalized",
		Short: "Report on finalized initiatives",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := metrics.Finalized(app.Board)
			if pdfPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFinalized(rows))
				return nil
			}

			f, err := os.Create(pdfPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", pdfPath, err)
			}
			if err := report.FinalizedPDF(f, rows, app.now()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write %s: %w", pdfPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d finalized initiative(s) to %s\n", len(rows), pdfPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Write the report as a PDF to this file")

	return cmd
}
