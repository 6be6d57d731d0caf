package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alexanderramin/planboard/internal/cli"
	"github.com/alexanderramin/planboard/internal/config"
	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/logging"
	"github.com/alexanderramin/planboard/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Resolve config file and default DB location, then overlay env.
	paths, err := config.DefaultPaths(os.Getenv)
	if err != nil {
		return err
	}
	cfg, err := config.Load(paths.ConfigPath, config.Default(paths.DBPath))
	if err != nil {
		return err
	}
	if cfg, err = cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Close()
	slogger := logger.Slog()

	// Use-case telemetry: log storage failures (or everything when use_cases
	// is on) and count every call for the optional metrics textfile. Rule
	// violations already reach the user as the command error.
	var logObserver service.UseCaseObserver = storageFailures{service.NewSlogUseCaseObserver(slogger)}
	if cfg.Logging.UseCases {
		logObserver = service.NewSlogUseCaseObserver(slogger)
	}
	reg := prometheus.NewRegistry()
	promObserver, err := service.NewPrometheusObserver(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	observer := service.MultiUseCaseObserver(logObserver, promObserver)

	// Open database
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	slogger.Debug("database opened", "path", cfg.Database.Path)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Initiatives: service.NewInitiativeService(uow, observer),
		Schedule:    service.NewScheduleService(uow, observer),
		Ledger:      service.NewLedgerService(uow, observer),
		Boards:      service.NewBoardService(uow, observer),
		Imports:     service.NewImportService(uow, observer),
		Config:      cfg,
		ConfigPath:  paths.ConfigPath,
	}

	// Detect interactive terminal for forms and the board.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	runErr := cli.NewRootCmd(app).ExecuteContext(ctx)

	if path := cfg.Metrics.Textfile; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			slogger.Warn("metrics textfile", "path", path, "error", err)
		} else if err := prometheus.WriteToTextfile(path, reg); err != nil {
			slogger.Warn("metrics textfile", "path", path, "error", err)
		}
	}
	return runErr
}

// storageFailures forwards use cases that failed in the database.
type storageFailures struct {
	next service.UseCaseObserver
}

func (o storageFailures) ObserveUseCase(ctx context.Context, event service.UseCaseEvent) {
	if errors.Is(event.Err, domain.ErrStorage) {
		o.next.ObserveUseCase(ctx, event)
	}
}
