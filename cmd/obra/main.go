package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/obra/internal/cli"
	"github.com/alexanderramin/obra/internal/config"
	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/metrics"
	"github.com/alexanderramin/obra/internal/notify"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}
	if cfg.MetricsAddr != "" {
		m := metrics.New()
		observers = append(observers, m)
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.Warn("metrics listener stopped", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
	}

	// Plan change notifications go over redis when configured, so a shared
	// view in another terminal can follow edits.
	var publisher notify.Publisher = notify.Noop{}
	var events notify.Subscriber
	if cfg.Redis.Enabled() {
		rdb := notify.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		notifier := notify.NewRedisNotifier(rdb, cfg.Redis.Channel, logger)
		publisher, events = notifier, notifier
	}

	schedules := service.NewScheduleService(uow, publisher, logger, observers...)

	app := &cli.App{
		Projects:           service.NewProjectService(repository.NewSQLiteProjectRepo(database)),
		Categories:         service.NewCategoryService(repository.NewSQLiteCostCategoryRepo(database)),
		Schedules:          schedules,
		Import:             service.NewImportService(uow, schedules, observers...),
		Events:             events,
		RiskThresholdWeeks: cfg.RiskThresholdWeeks,
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
