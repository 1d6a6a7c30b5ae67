// Package server wires the services, the chat hub and the HTTP engine together
// and runs them until the context is cancelled.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"aurachat/backend/internal/access"
	"aurachat/backend/internal/api"
	"aurachat/backend/internal/api/handler"
	"aurachat/backend/internal/api/middleware"
	"aurachat/backend/internal/aura"
	"aurachat/backend/internal/chathub"
	"aurachat/backend/internal/config"
	"aurachat/backend/internal/connection"
	"aurachat/backend/internal/feedback"
	"aurachat/backend/internal/jobs"
	"aurachat/backend/internal/metrics"
	"aurachat/backend/internal/notify"
	"aurachat/backend/internal/storage"
	"aurachat/backend/internal/streak"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Options overrides process-wide defaults, mostly for tests.
type Options struct {
	// Registry receives the metrics. Defaults to the global Prometheus registry.
	Registry *prometheus.Registry
	// Notifier handles messages to absent receivers. Defaults to notify.Nop.
	Notifier notify.Notifier
}

type Server struct {
	cfg *config.Config
	log logrus.FieldLogger

	Store     *storage.Service
	Metrics   *metrics.Metrics
	Aura      *aura.Engine
	Gate      *access.Gate
	Graph     *connection.Graph
	Feedback  *feedback.Service
	Activity  *streak.Activity
	Hub       *chathub.ManagerService
	Auth      *middleware.Auth
	Scheduler *jobs.Scheduler
	Engine    *gin.Engine
}

func New(cfg *config.Config, store *storage.Service, log logrus.FieldLogger, opts Options) *Server {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}

	s := &Server{cfg: cfg, log: log, Store: store}
	s.Metrics = metrics.New(registerer)
	s.Aura = aura.NewEngine(store, s.Metrics, log)
	s.Gate = access.NewGate(store, cfg.BanCacheTTL, log)
	s.Graph = connection.NewGraph(store, s.Gate, cfg.RequireVerificationForConnection, log)
	s.Feedback = feedback.NewService(store, s.Gate, s.Aura, log)
	s.Activity = streak.NewActivity(streak.NewTracker(store, log), s.Aura, log)
	s.Auth = middleware.NewAuth(cfg.JWTSecret, cfg.JWTTTL)
	s.Scheduler = jobs.NewScheduler(s.Aura, cfg.AuraRecalcSchedule, log)

	registry := chathub.NewRegistry(chathub.RoomDeps{
		Store:    store,
		Activity: s.Activity,
		Notifier: opts.Notifier,
		Metrics:  s.Metrics,
		Log:      log,
	})
	s.Hub = chathub.NewManagerService(registry, store, s.Gate, s.Graph, cfg.ChatAdmissionPolicy, s.Metrics, log)

	origins := cfg.AllowedOrigins()
	h := handler.NewHandler(handler.Handler{
		Hub:      s.Hub,
		Store:    store,
		Aura:     s.Aura,
		Activity: s.Activity,
		Feedback: s.Feedback,
		Graph:    s.Graph,
		Gate:     s.Gate,
		Auth:     s.Auth,
		Log:      log,
	}, api.OriginAllowed(origins))

	s.Engine = api.NewRouter(h, api.RouterConfig{
		AllowedOrigins: origins,
		Metrics:        s.Metrics,
		Gatherer:       gatherer,
		Log:            log,
	})
	return s
}

// Run serves HTTP and runs the scheduler until ctx is cancelled, then shuts
// both down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Scheduler.Start(ctx); err != nil {
		return err
	}
	defer s.Scheduler.Stop()

	srv := &http.Server{
		Addr:           s.cfg.HTTPAddr,
		Handler:        s.Engine,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("http server listening")
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

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
