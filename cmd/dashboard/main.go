package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agency-dashboard/internal/cache"
	"agency-dashboard/internal/config"
	genexcel "agency-dashboard/internal/service/generate-excel"
	"agency-dashboard/internal/service/metrics"
	"agency-dashboard/internal/storage/sheets"
	"agency-dashboard/internal/tabular"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closer, err := openStore(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", slog.String("driver", cfg.Storage.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closer.Close()

	retrying := tabular.NewRetrying(store, tabular.RetryPolicy{
		BaseDelay:  cfg.Retry.BaseDelay,
		MaxDelay:   cfg.Retry.MaxDelay,
		MaxRetries: cfg.Retry.MaxRetries,
	}, log)

	c := cache.New()
	storage := sheets.New(retrying, c, cfg.Cache.SheetTTL)

	bootCtx, cancel := context.WithTimeout(ctx, time.Minute)
	err = storage.EnsureSchemas(bootCtx)
	cancel()
	if err != nil {
		log.Error("failed to ensure sheet headers", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metricsService := metrics.NewMetricsService(storage, c, cfg.Cache.MetricsTTL,
		metrics.Options{HoursPerMonth: cfg.Capacity.HoursPerMonth()}, log)
	excelService := genexcel.NewGenerateService(metricsService)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, storage, c, metricsService, excelService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down server", slog.String("error", err.Error()))
		}
	}()

	log.Info("server started",
		slog.String("address", cfg.Address),
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore picks the tabular backend. SQL backends create their tables
// before first use.
func openStore(ctx context.Context, cfg config.Storage) (tabular.Store, io.Closer, error) {
	switch cfg.Driver {
	case "excel", "":
		wb, err := tabular.OpenWorkbook(cfg.WorkbookPath)
		if err != nil {
			return nil, nil, err
		}
		return wb, wb, nil
	case "mysql":
		db, err := tabular.OpenMySQL(tabular.MySQLDSN(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName))
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, db, nil
	case "postgres":
		db, err := tabular.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, db, nil
	case "memory":
		return tabular.NewMemory(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// dualHandler writes every record to the core handler and additionally
// copies errors to the error log file.
type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		if err = h.coreHandler.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		// A broken error file must not break request logging.
		_ = h.errorHandler.Handle(ctx, r.Clone())
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		slog.Warn("cannot open error log file", slog.String("error", err.Error()))
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})

	return slog.New(&dualHandler{coreHandler: coreHandler, errorHandler: errorHandler})
}
