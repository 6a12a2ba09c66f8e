// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jthom21/moviola/internal/api"
	"github.com/jthom21/moviola/internal/config"
	"github.com/jthom21/moviola/internal/db"
	"github.com/jthom21/moviola/internal/logger"
	"github.com/jthom21/moviola/internal/middleware"
	"github.com/jthom21/moviola/internal/recordings"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	db     *db.DB
	repos  *db.Repositories
	store  *recordings.Store
	router *gin.Engine
	server *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	return &Server{
		config: cfg,
		db:     database,
		repos:  db.NewRepositories(database),
		store:  recordings.NewStore(cfg.Recordings.Root),
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupStreamRoutes(apiGroup, s.repos.Streams)
	api.SetupRecordingRoutes(apiGroup, s.store, s.repos.Streams, s.config.Recordings.PlaybackBasePath)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
