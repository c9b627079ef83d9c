package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/WebShell/internal/api/http"
	"github.com/GriffinCanCode/WebShell/internal/api/middleware"
	"github.com/GriffinCanCode/WebShell/internal/commands"
	"github.com/GriffinCanCode/WebShell/internal/infrastructure/config"
	"github.com/GriffinCanCode/WebShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebShell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebShell/internal/seed"
	"github.com/GriffinCanCode/WebShell/internal/session"
	"github.com/GriffinCanCode/WebShell/internal/shell"
	"github.com/GriffinCanCode/WebShell/internal/store"
	"github.com/GriffinCanCode/WebShell/internal/ws"
)

// Server wraps the HTTP server and dependencies.
type Server struct {
	router   *gin.Engine
	sessions *session.Manager
	registry *shell.Registry
	store    store.Store
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a server instance from configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, fmt.Errorf("server: logger: %w", err)
	}

	logger.Info("Initializing WebShell server",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_backend", cfg.Storage.Backend),
	)

	metrics := monitoring.NewMetrics()

	backing, err := newStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	st := store.Instrument(backing, metrics)

	registry := shell.NewRegistry()
	commands.RegisterBuiltins(registry, commands.NewHTTPClient(cfg.Shell.FetchTimeout))
	logger.Info("Registered built-in commands", zap.Strings("commands", registry.Names()))

	seeder := seed.NewSeeder(cfg.Shell.SeedDir, logger)

	sessions := session.NewManager(st, registry, logger, metrics, session.Options{
		HistoryCapacity: cfg.Shell.HistoryCapacity,
		Seed:            seeder.Apply,
	})
	if err := sessions.Hydrate(context.Background()); err != nil {
		logger.Warn("Failed to hydrate persisted sessions", zap.Error(err))
	} else if n := sessions.Count(); n > 0 {
		logger.Info("Rehydrated persisted sessions", zap.Int("count", n))
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(sessions, registry, logger)
	wsHandler := ws.NewHandler(sessions, logger, metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	router.POST("/sessions", handlers.CreateSession)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id", handlers.GetSession)
	router.DELETE("/sessions/:id", handlers.DeleteSession)
	router.POST("/sessions/:id/execute", handlers.Execute)
	router.GET("/sessions/:id/snapshot", handlers.ExportSnapshot)
	router.POST("/sessions/:id/restore", handlers.ImportSnapshot)

	router.GET("/commands", handlers.ListCommands)

	router.GET("/shell", wsHandler.HandleConnection)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		sessions: sessions,
		registry: registry,
		store:    st,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close flushes the logger.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server")
	s.logger.Sync()
	return nil
}

func newStore(cfg config.StorageConfig) (store.Store, error) {
	switch cfg.Backend {
	case "disk":
		return store.NewDisk(cfg.Dir, cfg.Capacity)
	case "memory", "":
		return store.NewMemory(cfg.Capacity), nil
	default:
		return nil, fmt.Errorf("server: unknown storage backend %q", cfg.Backend)
	}
}
