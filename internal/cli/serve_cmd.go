package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/worktime/internal/api"
	"github.com/alexanderramin/worktime/internal/config"
	"github.com/alexanderramin/worktime/internal/logging"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}

			if app.Manager != nil && app.Manager.ConfigFile() != "" {
				app.Manager.Watch(func(c *config.Config) {
					if app.LogLevel == nil {
						return
					}
					if err := logging.SetLevel(app.LogLevel, c.Log.Level); err != nil {
						app.Logger.Warn("ignoring log level from config", "error", err)
						return
					}
					app.Logger.Info("config reloaded", "log_level", c.Log.Level)
				}, func(err error) {
					app.Logger.Warn("config reload failed", "error", err)
				})
			}

			srv := api.NewServer(api.Services{
				Sessions:  app.Sessions,
				Summaries: app.Summaries,
				Projects:  app.Projects,
				Users:     app.Users,
			}, api.Options{
				UserHeader:  cfg.Auth.UserHeader,
				RoleHeader:  cfg.Auth.RoleHeader,
				CORSOrigins: cfg.Server.CORSOrigins,
				Health:      app.Health,
				Logger:      app.Logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := srv.ListenAndServe(ctx, api.ServeConfig{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			})
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Migrate == nil {
				return fmt.Errorf("migrate is not configured")
			}
			if err := app.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s).\n", app.Config.Database.Driver)
			return nil
		},
	}
}
