package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labor-analytics/internal/app"
	"labor-analytics/internal/config"
)

func main() {
	// Flags
	once := flag.Bool("once", false, "Run a single sync and exit")
	from := flag.String("from", "", "Sync start date YYYY-MM-DD (optional, default: Monday of yesterday's week)")
	to := flag.String("to", "", "Sync end date YYYY-MM-DD, inclusive (optional, default: today)")
	report := flag.String("report", "", "Print the daily report for YYYY-MM-DD (or \"today\") as JSON and exit")
	serve := flag.Bool("serve", false, "Expose the HTTP trigger and report server alongside the scheduler")
	addr := flag.String("addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	// Config
	cfg, err := config.Load()

	// Logger
	level := slog.LevelInfo
	if *verbose || cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if *report != "" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// App
	application, err := app.New(logger, cfg)
	if err != nil {
		logger.Error("failed to initialize app", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer application.Close()

	// Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *report != "" {
		date := application.Today()
		if *report != "today" {
			date = mustDate(*report, "-report", logger)
		}
		r, err := application.Report(ctx, date)
		if err != nil {
			logger.Error("report failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(r)
		return
	}

	if *once {
		fromDate, toDate := application.DefaultSyncWindow()
		if *from != "" {
			fromDate = mustDate(*from, "-from", logger)
		}
		if *to != "" {
			toDate = mustDate(*to, "-to", logger)
		}
		if err := application.RunOnce(ctx, fromDate, toDate); err != nil {
			logger.Error("sync failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("sync completed")
		return
	}

	// Scheduled mode (default for container)
	sched, err := application.StartScheduler(ctx, cfg.Sync.Schedule)
	if err != nil {
		logger.Error("invalid SYNC_SCHEDULE", slog.String("schedule", cfg.Sync.Schedule), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { <-sched.Stop().Done() }()

	if *serve {
		listen := cfg.HTTP.Addr
		if *addr != "" {
			listen = *addr
		}
		srv := application.HTTPServer(listen)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server failed", slog.String("error", err.Error()))
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")
}

// mustDate parses a YYYY-MM-DD flag value or exits.
func mustDate(val, name string, log *slog.Logger) time.Time {
	d, err := time.Parse(time.DateOnly, val)
	if err != nil {
		log.Error("invalid "+name+", expected YYYY-MM-DD", slog.String("value", val))
		os.Exit(1)
	}
	return d
}
