// Package server runs the hued daemon: the light refresh worker, the HTTP API
// and the WebSocket event push.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/hued/internal/config"
	"github.com/jmylchreest/hued/internal/events"
	"github.com/jmylchreest/hued/internal/http/handlers"
	"github.com/jmylchreest/hued/internal/http/mw"
	"github.com/jmylchreest/hued/internal/http/routes"
	"github.com/jmylchreest/hued/internal/ws"
	"github.com/jmylchreest/hued/pkg/hue"
)

// LightManager is what the daemon needs from hue.Manager.
type LightManager interface {
	handlers.LightManager
	SetEventBus(bus *events.Bus)
	StartRefreshWorker(ctx context.Context, interval time.Duration)
}

var _ LightManager = (*hue.Manager)(nil)

// BuildInfo is reported by the version endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// Server manages the hued daemon.
type Server struct {
	logger     *slog.Logger
	cfg        *config.Config
	lights     LightManager
	build      BuildInfo
	eventBus   *events.Bus
	hub        *ws.Hub
	listener   net.Listener
	httpServer *http.Server
	wg         sync.WaitGroup
	rootCtx    context.Context
	rootCancel context.CancelFunc
}

// New creates a new server instance and wires the event bus into lights.
func New(logger *slog.Logger, cfg *config.Config, lights LightManager, build BuildInfo) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	eventBus := events.NewBus()
	lights.SetEventBus(eventBus)

	rootCtx, rootCancel := context.WithCancel(context.Background())

	return &Server{
		logger:     logger,
		cfg:        cfg,
		lights:     lights,
		build:      build,
		eventBus:   eventBus,
		hub:        ws.NewHub(logger, eventBus),
		rootCtx:    rootCtx,
		rootCancel: rootCancel,
	}
}

// EventBus returns the bus the light manager publishes to.
func (s *Server) EventBus() *events.Bus {
	return s.eventBus
}

// Handler builds the HTTP router serving the API and the WebSocket endpoint.
func (s *Server) Handler() http.Handler {
	lightHandler := &handlers.LightHandler{Lights: s.lights}

	// Rate limiting runs before auth to slow down key guessing.
	router := chi.NewRouter()
	router.Use(mw.RequestLogging(s.logger))
	router.Use(mw.RateLimitByIP(s.logger, s.cfg.API.RateLimit))

	humaConfig := routes.NewHumaConfig(s.build.Version, "")
	api := humachi.New(router, humaConfig)

	// Operations without Security set (health, version, docs) stay public.
	api.UseMiddleware(mw.HumaAuth(api, s.logger, s.cfg.API.Key))

	routes.Register(api, &routes.Handlers{
		HealthCheck:  handlers.HealthCheck,
		VersionCheck: handlers.VersionHandler(s.build.Version, s.build.Commit, s.build.BuildDate),
		ConvertColor: handlers.ConvertColor,
		Light:        lightHandler,
	})

	rawAuth := mw.RawAPIKeyAuth(s.logger, s.cfg.API.Key)
	router.With(rawAuth).Get("/api/v1/ws", ws.Handler(s.hub, s.logger))

	return router
}

// Start primes the light cache, starts the refresh worker and the WebSocket
// hub, and begins serving the API. A failed first refresh is logged; the
// worker keeps retrying.
func (s *Server) Start() error {
	s.logger.Info("Starting hued server", "version", s.build.Version)

	if err := s.lights.Refresh(s.rootCtx); err != nil {
		s.logger.Warn("initial light refresh failed", "error", err)
	}

	s.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in WebSocket hub", "recover", r)
			}
		}()
		s.hub.Run(s.rootCtx)
	})

	s.lights.StartRefreshWorker(s.rootCtx, s.cfg.Lights.RefreshInterval)

	if s.cfg.API.ListenAddress == "" {
		s.logger.Info("HTTP API disabled")
		return nil
	}

	listener, err := net.Listen("tcp", s.cfg.API.ListenAddress)
	if err != nil {
		s.rootCancel()
		s.wg.Wait()
		return err
	}
	s.listener = listener
	s.logger.Info("Starting HTTP API server", "address", listener.Addr().String())

	s.httpServer = &http.Server{
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// WebSocket connections outlive any fixed write timeout.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	s.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in HTTP server goroutine", "recover", r)
			}
		}()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", "error", err)
		}
		s.logger.Info("HTTP server stopped")
	})

	return nil
}

// Addr returns the address the API is listening on, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down hued server")
	s.rootCancel()

	if s.httpServer != nil {
		s.logger.Info("Shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown failed", "error", err)
		}
	}

	s.logger.Info("Waiting for services to stop...")
	s.wg.Wait()
	s.logger.Info("hued server shut down gracefully")
}
