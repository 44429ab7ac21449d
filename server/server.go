package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/kanekosora-114/Tune-into-English/config"
	"github.com/kanekosora-114/Tune-into-English/internal/app"
	"github.com/kanekosora-114/Tune-into-English/logger"
)

// NewRouter registers the API routes of h.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, accessLogMiddleware, corsMiddleware)

	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet, http.MethodHead)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/lyrics", h.LyricsHandler).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/translate", h.TranslateHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/translate_lines", h.TranslateLinesHandler).Methods(http.MethodPost, http.MethodOptions)
	if h.lookups != nil {
		api.HandleFunc("/lyrics/lookups", h.LookupsHandler).Methods(http.MethodGet)
		api.HandleFunc("/lyrics/stats", h.LookupStatsHandler).Methods(http.MethodGet)
	}
	return router
}

// NewHandlerFromApp builds the API handler for the services in a.
func NewHandlerFromApp(a *app.App) *APIHandler {
	opts := []HandlerOption{WithDefaultLanguage(a.Config.TargetLanguage)}
	if a.Pipeline != nil {
		opts = append(opts, WithTranslator(a.Pipeline))
	}
	if a.Batch != nil {
		opts = append(opts, WithLineTranslator(a.Batch))
	}
	if a.Lookups != nil {
		opts = append(opts, WithLookups(a.Lookups))
	}
	return NewAPIHandler(a.Lyrics, opts...)
}

// Start runs the HTTP server until SIGINT or SIGTERM.
func Start(cfg *config.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      NewRouter(NewHandlerFromApp(a)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // spans every chunk of a long translation
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[Server] listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-stop:
	}

	logger.Info("[Server] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("[Server] stopped")
	return nil
}
