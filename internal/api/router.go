// Package api exposes the summary handler over HTTP.
package api

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/textsummarizer/internal/models"
	"github.com/spacesedan/textsummarizer/internal/summarizer"
)

type Summarizer interface {
	Summarize(ctx context.Context, req models.SummaryRequest) (*models.SummaryResult, error)
	Provider() string
}

type Server struct {
	summarizer Summarizer
	healthy    *atomic.Bool
}

// NewRouter wires the routes. A nil healthy flag reports healthy.
func NewRouter(s Summarizer, healthy *atomic.Bool) *gin.Engine {
	srv := &Server{summarizer: s, healthy: healthy}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware())

	router.GET("/healthz", srv.health)
	v1 := router.Group("/api/v1")
	v1.POST("/summarize", srv.summarize)

	return router
}

func (s *Server) summarize(c *gin.Context) {
	var req models.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorBody{
			Kind:    "bad_request",
			Message: "request body must be a JSON summary request: " + err.Error(),
		}})
		return
	}

	result, err := s.summarizer.Summarize(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(StatusFor(err), models.ErrorResponse{Error: summarizer.Describe(err)})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) health(c *gin.Context) {
	resp := models.HealthResponse{Status: "ok", Provider: s.summarizer.Provider()}
	if s.healthy != nil && !s.healthy.Load() {
		resp.Status = "unavailable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func StatusFor(err error) int {
	switch summarizer.Kind(err) {
	case summarizer.KindValidation:
		return http.StatusUnprocessableEntity
	case summarizer.KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
