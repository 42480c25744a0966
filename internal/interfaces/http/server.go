// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	redisdb "github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/routes"
)

// Server is the HTTP server for the storefront API.
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	db         *postgres.Database
	redis      *redisdb.Client
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Config, log *logrus.Logger, db *postgres.Database, redisClient *redisdb.Client) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: cfg,
		logger: log,
		db:     db,
		redis:  redisClient,
	}
	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) setupRouter() {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(s.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(s.config))
	router.Use(middleware.RateLimit(s.config, s.redis.GetClient()))
	router.Use(middleware.Timeout(s.config.Server.WriteTimeout))

	router.GET("/health", s.handleHealth)
	router.GET("/ready", s.handleReady)

	routes.SetupRoutes(router, s.config, s.logger, s.db, s.redis)

	s.router = router
}

// Start begins serving requests. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"port":        s.config.Server.Port,
		"environment": s.config.App.Environment,
	}).Info("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth reports process liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   s.config.App.Name,
		"version":   s.config.App.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady reports whether the backing stores are reachable.
func (s *Server) handleReady(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if err := s.db.Health(); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if err := s.redis.Health(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}
