package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/worktime/internal/cli"
	"github.com/alexanderramin/worktime/internal/config"
	"github.com/alexanderramin/worktime/internal/db"
	"github.com/alexanderramin/worktime/internal/logging"
	"github.com/alexanderramin/worktime/internal/repository"
	"github.com/alexanderramin/worktime/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCmd(load).Execute()
}

// load reads configuration, opens the configured store and wires services.
func load(ctx context.Context, configPath string) (*cli.App, error) {
	manager, err := config.NewManager(configPath)
	if err != nil {
		return nil, err
	}
	cfg := manager.Config()

	level := new(slog.LevelVar)
	if err := logging.SetLevel(level, cfg.Log.Level); err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, cfg.Log.Format, level)
	slog.SetDefault(logger)

	app := &cli.App{
		Config:   cfg,
		Manager:  manager,
		Logger:   logger,
		LogLevel: level,
	}

	var (
		repos repository.Repos
		tx    repository.Transactor
	)
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := db.OpenPostgres(ctx, db.PostgresConfig{
			DSN:            cfg.Database.DSN,
			MaxConns:       cfg.Database.MaxConns,
			ConnectTimeout: cfg.Database.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		repos = repository.NewPostgresRepos(pool)
		tx = repository.NewPostgresTransactor(pool)
		wirePostgres(app, pool)
	default:
		database, err := db.OpenDB(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		repos = repository.NewSQLiteRepos(database)
		tx = repository.NewSQLiteTransactor(db.NewSQLUnitOfWork(database, nil))
		wireSQLite(app, database)
	}

	observer := service.NewLogUseCaseObserver(logger)
	app.Sessions = service.NewSessionService(repos, tx,
		service.WithSingleOpenSession(cfg.Sessions.SingleOpenPerUser),
		service.WithSessionObserver(observer),
	)
	app.Summaries = service.NewSummaryService(repos, observer)
	app.Projects = service.NewProjectService(repos.Projects, observer)
	app.Users = service.NewUserService(repos.Users, observer)

	logger.Debug("worktime ready",
		"driver", cfg.Database.Driver,
		"config_file", manager.ConfigFile(),
		"single_open_per_user", cfg.Sessions.SingleOpenPerUser,
	)
	return app, nil
}

func wireSQLite(app *cli.App, database *sql.DB) {
	app.Migrate = func(ctx context.Context) error {
		return db.Migrate(database)
	}
	app.Health = database.PingContext
	app.Close = database.Close
}

func wirePostgres(app *cli.App, pool *pgxpool.Pool) {
	app.Migrate = func(ctx context.Context) error {
		return db.MigratePostgres(ctx, pool)
	}
	app.Health = pool.Ping
	app.Close = func() error {
		pool.Close()
		return nil
	}
}
