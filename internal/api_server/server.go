package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/vmassess/bomgen/internal/config"
	handlers "github.com/vmassess/bomgen/internal/handlers/v1alpha1"
	"github.com/vmassess/bomgen/internal/service"
	"github.com/vmassess/bomgen/internal/store"
	"github.com/vmassess/bomgen/pkg/metrics"
	"github.com/vmassess/bomgen/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
	expireInterval          = time.Hour
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	runner   *service.SessionRunner
	listener net.Listener
}

// New returns a new instance of the BOM generator API server.
func New(
	cfg *config.Config,
	sessionStore store.Store,
	runner *service.SessionRunner,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    sessionStore,
		runner:   runner,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			MaxAge:         300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	h := handlers.NewHandler(s.runner, s.store, s.cfg.Service.MaxUploadBytes)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/uploads", h.Upload)
		r.Get("/sessions/{id}", h.GetSession)
		r.Get("/sessions/{id}/reports/{name}", h.GetReport)
	})
	router.Handle("/metrics", metrics.NewPrometheusMetricsHandler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go s.expireLoop(ctx)

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}

// expireLoop drops sessions older than the configured TTL so report
// contents do not accumulate in memory forever.
func (s *Server) expireLoop(ctx context.Context) {
	maxAge := time.Duration(s.cfg.Service.SessionTTLHours) * time.Hour
	ticker := time.NewTicker(expireInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if dropped := s.store.Expire(maxAge); dropped > 0 {
				zap.S().Named("api_server").Infof("expired %d sessions older than %s", dropped, maxAge)
			}
		case <-ctx.Done():
			return
		}
	}
}
