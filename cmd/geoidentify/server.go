package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-geoidentify/components/predictor"
	"github.com/goliatone/go-geoidentify/internal/config"
	"github.com/goliatone/go-geoidentify/pkg/client"
	"github.com/goliatone/go-geoidentify/pkg/sanitize"
)

func newRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	return router
}

// listen serves handler on addr until SIGINT/SIGTERM, then drains for up to
// five seconds.
func listen(addr string, handler http.Handler, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadKnowledgeBase(path string) (*predictor.KnowledgeBase, error) {
	if path == "" {
		return predictor.DefaultKnowledgeBase()
	}
	return predictor.LoadKnowledgeBaseFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

func newBackend(api config.APIConfig, logger *log.Logger) (*client.HTTPClient, error) {
	options := []client.Option{client.WithBaseURL(api.BaseURL), client.WithLogger(logger)}
	if api.StripMarkup {
		options = append(options, client.WithSanitizer(sanitize.Text))
	}
	return client.New(options...)
}
