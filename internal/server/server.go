// Package server exposes the fader over a small HTTP remote-control API.
package server

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/alkime/fader/internal/config"
	"github.com/alkime/fader/internal/scale"
	"github.com/alkime/fader/pkg/uictl"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP remote-control server.
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine

	scale    *scale.Scale
	level    uictl.Dial[float64]
	peak     uictl.Dial[float64]
	setLevel func(db float64)
}

// levelBody is the PUT /api/level request and the GET /api/level response.
type levelBody struct {
	DB float64 `json:"db"`
}

// New creates a new Server instance. setLevel forwards a remote level
// change into the UI loop; reads go through the bridges.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	s *scale.Scale,
	level, peak uictl.Dial[float64],
	setLevel func(db float64),
) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		scale:    s,
		level:    level,
		peak:     peak,
		setLevel: setLevel,
	}

	setupSecurityMiddleware(router, logger)
	server.setupRoutes()

	return server
}

// Router returns the underlying gin engine, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server and blocks.
func Run(s *Server) error {
	s.logger.Info("Remote control listening", "addr", s.config.ServeAddr)
	return s.router.Run(s.config.ServeAddr)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/level", s.handleGetLevel)
		api.PUT("/level", s.handlePutLevel)
		api.GET("/peak", s.handleGetPeak)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fader",
	})
}

func (s *Server) handleGetLevel(c *gin.Context) {
	c.JSON(http.StatusOK, levelBody{DB: s.level.Read()})
}

// handlePutLevel accepts a level in scale units. Out-of-range values are
// clamped, matching every other way of moving the fader.
func (s *Server) handlePutLevel(c *gin.Context) {
	var body levelBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := s.scale.Clamp(body.DB)
	s.setLevel(db)
	s.logger.Debug("Remote level change", "db", db)

	c.JSON(http.StatusOK, levelBody{DB: db})
}

// handleGetPeak reports the held peak in dBFS. Silence has no finite
// dBFS value and is reported as a null peak.
func (s *Server) handleGetPeak(c *gin.Context) {
	peak := s.peak.Read()
	if math.IsInf(peak, -1) {
		c.JSON(http.StatusOK, gin.H{"dbfs": nil, "silence": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dbfs": peak, "silence": false})
}
