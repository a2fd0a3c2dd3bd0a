package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/worktime/internal/api"
	"github.com/alexanderramin/worktime/internal/config"
	"github.com/alexanderramin/worktime/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and runtime handles used by CLI commands.
type App struct {
	Sessions  service.SessionService
	Summaries service.SummaryService
	Projects  service.ProjectService
	Users     service.UserService

	Config   *config.Config
	Manager  *config.Manager
	Logger   *slog.Logger
	LogLevel *slog.LevelVar

	// Migrate applies the schema to the configured database.
	Migrate func(ctx context.Context) error
	Health  api.HealthFunc
	Close   func() error
}

// Loader builds the App once flags are parsed. configPath is the value of
// --config and may be empty.
type Loader func(ctx context.Context, configPath string) (*App, error)

// NewRootCmd creates the top-level "worktime" command. The App is built
// by load before any subcommand runs and closed afterwards.
func NewRootCmd(load Loader) *cobra.Command {
	app := &App{}
	var configPath string

	root := &cobra.Command{
		Use:           "worktime",
		Short:         "Work session tracking and daily time summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := load(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			*app = *loaded
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.Close == nil {
				return nil
			}
			if err := app.Close(); err != nil {
				return fmt.Errorf("closing: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to worktime.yaml (default: search ., ./configs, ~/.worktime)")

	root.AddCommand(
		newServeCmd(app),
		newMigrateCmd(app),
		newUserCmd(app),
		newProjectCmd(app),
		newSessionCmd(app),
		newSummaryCmd(app),
	)

	return root
}
