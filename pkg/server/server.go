package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/sec-tools/policy-atlas/pkg/handlers/scan"
	policymiddleware "github.com/sec-tools/policy-atlas/pkg/server/middleware"
	"github.com/sec-tools/policy-atlas/pkg/services/catalog"
	scansvc "github.com/sec-tools/policy-atlas/pkg/services/scan"
	duckdbscan "github.com/sec-tools/policy-atlas/pkg/store/duckdb/scan"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Catalog *catalog.Catalog
	Targets scansvc.Registry
	Scans   duckdbscan.Store
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	scanHandler := handlers.NewHandler(
		config.Dependencies.Catalog,
		config.Dependencies.Targets,
		config.Dependencies.Scans,
	)

	router := chi.NewRouter()

	router.Use(policymiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/rules", scanHandler.ListRules)
		r.Post("/scans", scanHandler.RunScan)
		r.Get("/scans", scanHandler.ListScans)
		r.Get("/scans/{id}", scanHandler.GetScan)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

// Router exposes the configured mux for tests and embedding.
func (w *WebAPI) Router() http.Handler {
	return w.router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
