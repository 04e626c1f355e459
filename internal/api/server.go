// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Slade66/number-generator/internal/status"
	"github.com/Slade66/number-generator/pkg/run"
)

// Enqueuer hands run requests to the workers.
type Enqueuer interface {
	Enqueue(ctx context.Context, req *run.Request) error
}

// StatusStore records and reads run states.
type StatusStore interface {
	InitRunStatus(ctx context.Context, req *run.Request) error
	GetRun(ctx context.Context, runID string) (*status.Info, error)
	GetAllRuns(ctx context.Context) ([]status.Info, error)
}

// Server serves the run API.
type Server struct {
	queue   Enqueuer
	status  StatusStore
	log     zerolog.Logger
	metrics prometheus.Gatherer
}

func NewServer(queue Enqueuer, store StatusStore, log zerolog.Logger, metrics prometheus.Gatherer) *Server {
	return &Server{
		queue:   queue,
		status:  store,
		log:     log.With().Str("component", "api").Logger(),
		metrics: metrics,
	}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.POST("/runs", s.createRun)
		api.GET("/runs", s.listRuns)
		api.GET("/runs/:id", s.getRun)
	}
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{})))
	}
	return router
}

// createRun validates a run request, queues it and records it as queued.
func (s *Server) createRun(c *gin.Context) {
	var req run.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = uuid.New()

	if err := s.queue.Enqueue(c.Request.Context(), &req); err != nil {
		s.log.Error().Err(err).Str("run_id", req.ID.String()).Msg("could not enqueue run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not publish run to the queue"})
		return
	}

	// the run is queued either way; a missing status record is not fatal
	if err := s.status.InitRunStatus(c.Request.Context(), &req); err != nil {
		s.log.Warn().Err(err).Str("run_id", req.ID.String()).Msg("could not initialise run status")
	}

	s.log.Info().Str("run_id", req.ID.String()).Int("observers", len(req.Observers)).Msg("run queued")
	c.JSON(http.StatusAccepted, gin.H{
		"message": "run accepted and queued",
		"run_id":  req.ID.String(),
	})
}

func (s *Server) listRuns(c *gin.Context) {
	runs, err := s.status.GetAllRuns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read runs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}
	info, err := s.status.GetRun(c.Request.Context(), id.String())
	if errors.Is(err, status.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read run: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}
