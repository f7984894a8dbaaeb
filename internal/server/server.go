// Package server exposes the annotation pipeline over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plansight/plansight/internal/annotate"
	"github.com/plansight/plansight/internal/store"
)

// Server wires the pipeline and the optional persistence layer into gin
// handlers.
type Server struct {
	detector  *annotate.Detector
	store     *store.Store // nil disables session and activity routes
	maxUpload int64
}

// New creates a Server. Pass a nil store to run detection-only.
func New(detector *annotate.Detector, st *store.Store, maxUpload int64) *Server {
	return &Server{
		detector:  detector,
		store:     st,
		maxUpload: maxUpload,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())
	if s.maxUpload > 0 {
		r.MaxMultipartMemory = s.maxUpload
	}

	r.GET("/healthz", s.handleHealthz)

	r.POST("/detect", s.handleDetect)
	r.POST("/detect/region-detect", s.handleRegionDetect)

	// Persistence-backed routes exist only when a database is configured.
	if s.store != nil {
		r.POST("/auth/login", s.handleLogin)
		r.POST("/auth/logout", s.handleLogout)
		r.GET("/activity-log", s.handleActivityList)
		r.POST("/activity-log", s.handleActivityLog)
	}

	return r
}

// corsMiddleware allows the review UI to call the API from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
