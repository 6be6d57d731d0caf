package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/snapshot"
	"github.com/spf13/cobra"
)

// snapshotFormat picks the format from --format, then from the file
// extension, then YAML.
func snapshotFormat(flag, path string) (snapshot.Format, error) {
	if flag != "" {
		return snapshot.ParseFormat(flag)
	}
	if path != "" && path != "-" {
		return snapshot.FormatFromPath(path), nil
	}
	return snapshot.FormatYAML, nil
}

func newExportCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write the whole board as YAML or JSON, to stdout by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			f, err := snapshotFormat(format, path)
			if err != nil {
				return err
			}

			snap := app.Imports.Export(app.Board)
			if path == "" || path == "-" {
				return snapshot.Encode(cmd.OutOrStdout(), snap, f)
			}

			out, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			if err := snapshot.Encode(out, snap, f); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d initiatives, %d blocks, %d closed days to %s\n",
				len(snap.Initiatives), len(snap.Blocks), len(snap.ClosedDays), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "yaml or json (default: from the file extension)")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load an exported board into an empty store; use - for stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := snapshotFormat(format, path)
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if path != "-" {
				in, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("%w: open %s: %v", domain.ErrValidation, path, err)
				}
				defer in.Close()
				r = in
			}

			snap, err := snapshot.Decode(r, f)
			if err != nil {
				return err
			}
			res, err := app.Imports.Import(cmd.Context(), app.Board, snap)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d initiatives, %d blocks, %d closed days\n",
				res.Initiatives, res.Blocks, res.ClosedDays)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "yaml or json (default: from the file extension)")

	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every initiative, block and closed day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("%w: reset deletes everything; pass --yes to confirm", domain.ErrValidation)
				}
				confirmed, err := app.confirm("Delete the whole board? This cannot be undone.")
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Boards.Reset(cmd.Context(), app.Board); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Board reset.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
