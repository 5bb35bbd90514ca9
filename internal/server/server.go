package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fieldex/fieldex/internal/api/middleware"
	"github.com/fieldex/fieldex/internal/config"
	"github.com/fieldex/fieldex/internal/fetch"
	apihttp "github.com/fieldex/fieldex/internal/http"
	"github.com/fieldex/fieldex/internal/logging"
	"github.com/fieldex/fieldex/internal/monitoring"
	"github.com/fieldex/fieldex/internal/providers/navhide"
	"github.com/fieldex/fieldex/internal/providers/navtree"
	recordprovider "github.com/fieldex/fieldex/internal/providers/record"
	"github.com/fieldex/fieldex/internal/service"
	"github.com/fieldex/fieldex/internal/ws"
)

// Server is the fieldex HTTP server.
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logging.Logger
}

// NewServer wires the service registry, record pipeline, and navigation
// stores behind the API routes.
func NewServer(cfg *config.Config, log *logging.Logger) (*Server, error) {
	timeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second

	fetcher := fetch.New(timeout, cfg.Fetch.UserAgent)
	fetcher.SetCookie(cfg.Fetch.Cookie)
	pages := navtree.NewFetcher(timeout, cfg.Fetch.UserAgent)

	store, err := navhide.NewStore(cfg.Nav.StoreDir)
	if err != nil {
		return nil, fmt.Errorf("open hide-list store: %w", err)
	}
	nav := navhide.NewManager(store)

	registry := service.NewRegistry()
	registerProviders(registry, nav, pages, log)

	metrics := monitoring.NewMetrics()
	handlers := apihttp.NewHandlers(registry, fetcher, pages, nav, metrics, log)
	stream := ws.NewHandler(fetcher, metrics, log)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			SkipPaths:         []string{"/health", "/metrics"},
		}))
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/inspect", handlers.Inspect)
	router.POST("/inspect/csv", handlers.InspectCSV)
	router.POST("/record/decode", handlers.Decode)
	router.POST("/record/search", handlers.Search)

	router.GET("/services", handlers.Services)
	router.POST("/services/execute", handlers.Execute)

	router.GET("/nav/menu", handlers.NavMenu)
	router.GET("/nav/hidden", handlers.NavHidden)
	router.POST("/nav/toggle", handlers.NavToggle)

	router.GET("/stream", stream.Serve)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	return &Server{
		router: router,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}, nil
}

func registerProviders(registry *service.Registry, nav *navhide.Manager, pages *navtree.Fetcher, log *logging.Logger) {
	registry.Register(recordprovider.NewProvider())
	log.Info("✓ Record service")

	registry.Register(navhide.NewProvider(nav))
	log.Info("✓ Navigation hide service")

	registry.Register(navtree.NewProvider(pages))
	log.Info("✓ Menu extraction service")
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
