// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/docsite/internal/api"
	"github.com/starford/docsite/internal/docservice"
	"github.com/starford/docsite/internal/index"
	"github.com/starford/docsite/internal/loader"
	"github.com/starford/docsite/internal/mcpserver"
	"github.com/starford/docsite/internal/sse"
	"github.com/starford/docsite/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout, version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// newService wires storage, loader, builder and the document service.
func (a *application) newService(logger *slog.Logger, svcOpts ...docservice.Option) (*docservice.Service, *storage.FS, error) {
	cfg := a.config

	store, err := storage.NewFS(cfg.Docs.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	ldr := loader.New(store, logger, loader.WithExcerptLength(cfg.Index.ExcerptLength))
	builder := index.NewBuilder(store, ldr, logger, cfg.Index.Workers)

	svcOpts = append([]docservice.Option{docservice.WithSearchLimit(cfg.Index.SearchLimit)}, svcOpts...)
	return docservice.New(store, ldr, builder, cfg.Index.Path, logger, svcOpts...), store, nil
}

// Build regenerates the index snapshot once and returns the number of
// indexed documents.
func Build(ctx context.Context, opts ...Option) (int, error) {
	app, err := newApplication(opts)
	if err != nil {
		return 0, err
	}
	logger := app.newLogger()

	svc, _, err := app.newService(logger)
	if err != nil {
		return 0, err
	}

	ix, err := svc.Rebuild(ctx)
	if err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}
	return ix.Len(), nil
}

// ServeMCP builds the index and serves the MCP tools on stdio.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.newLogger()

	svc, _, err := app.newService(logger)
	if err != nil {
		return err
	}
	if _, err := svc.Rebuild(ctx); err != nil {
		logger.Warn("initial build failed", slog.String("error", err.Error()))
	}

	logger.Info("MCP server starting on stdio", slog.String("docs_path", app.config.Docs.Path))
	return mcpserver.New(svc, app.version).ServeStdio()
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.newLogger()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("docs_path", cfg.Docs.Path),
		slog.String("index_path", cfg.Index.Path),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	broker := sse.NewBroker(sse.DefaultThrottle)
	defer broker.Close()

	svc, store, err := app.newService(logger, docservice.WithRebuildHook(broker.PublishRebuild))
	if err != nil {
		return err
	}

	// Initial build; a snapshot write failure is not fatal for serving.
	if _, err := svc.Rebuild(ctx); err != nil {
		logger.Warn("initial build failed", slog.String("error", err.Error()))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","documents":%d}`, svc.Current().Len())
	})

	r.Mount("/", api.NewRouter(svc, broker, store.Root(), logger))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Watch.Enabled {
		g.Go(func() error {
			err := index.Watch(gCtx, store.Root(), cfg.Watch.Debounce, logger, func(ctx context.Context) {
				_, _ = svc.Rebuild(ctx)
			})
			if err != nil {
				logger.Warn("watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		// Ends open event streams so Shutdown does not wait on them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Returning an error cancels gCtx, which stops the watcher.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")
