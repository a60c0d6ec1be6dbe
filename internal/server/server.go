package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/handlers"
	handlersv1 "github.com/goto/labsearch/internal/server/v1"
	"github.com/goto/salt/log"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	Host         string        `yaml:"host" mapstructure:"host" default:"0.0.0.0"`
	Port         int           `yaml:"port" mapstructure:"port" default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" default:"60s"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" default:"60s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" default:"120s"`
	GracePeriod  time.Duration `yaml:"grace_period" mapstructure:"grace_period" default:"5s"`
}

func (cfg Config) addr() string { return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port) }

// NewHandler builds the HTTP surface: the v1 API, health check and
// Prometheus metrics.
func NewHandler(
	logger log.Logger,
	nrApp *newrelic.Application,
	searchService handlersv1.SearchService,
	documentService handlersv1.DocumentService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(recoverer(logger))
	r.Use(requestLogger(logger))
	r.Use(metricsMiddleware)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pong"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	v1 := handlersv1.NewAPIServer(logger, searchService, documentService)
	v1.Register(r, func(pattern string, h http.HandlerFunc) http.Handler {
		_, wrapped := newrelic.WrapHandle(nrApp, pattern, h)
		return wrapped
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"reason":"not found"}`))
	})

	return handlers.CompressHandler(r)
}

// Serve listens until ctx is done and then shuts down, giving in-flight
// requests the configured grace period.
func Serve(ctx context.Context, config Config, logger log.Logger, handler http.Handler) error {
	srv := &http.Server{
		Addr:         config.addr(),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "http_addr", config.addr())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GracePeriod)
	defer cancel()

	logger.Info("shutting down server", "grace_period", config.GracePeriod)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
