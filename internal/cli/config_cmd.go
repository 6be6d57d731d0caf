package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/planboard/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect the effective configuration",
		Annotations: map[string]string{skipBoardAnnotation: "true"},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as TOML",
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := app.Config.Encode()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file and database locations",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintf(cmd.OutOrStdout(), "config    %s\n", app.ConfigPath)
				fmt.Fprintf(cmd.OutOrStdout(), "database  %s\n", app.Config.Database.Path)
				if app.Config.Logging.File != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "log       %s\n", app.Config.Logging.File)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the effective configuration to the config file if it does not exist",
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.ConfigPath == "" {
					return errors.New("no config path")
				}
				if _, err := os.Stat(app.ConfigPath); err == nil {
					return fmt.Errorf("%s already exists", app.ConfigPath)
				}
				if err := config.Write(app.ConfigPath, app.Config); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", app.ConfigPath)
				return nil
			},
		},
	)

	return cmd
}
