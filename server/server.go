package server

import (
	"errors"
	"net/http"

	"guba-scraper/models"
	"guba-scraper/scraper"

	"github.com/gin-gonic/gin"
)

// Server exposes the scraper as an HTTP tool endpoint plus a health check
type Server struct {
	scraper *scraper.Scraper
	engine  *gin.Engine
}

// ToolRequest is the body of a get_guba_comments call
type ToolRequest struct {
	StockCode string `json:"stock_code" binding:"required"`
}

// New creates a new Server wrapping the given scraper
func New(s *scraper.Scraper) *Server {
	srv := &Server{
		scraper: s,
		engine:  gin.Default(),
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleHealth)
	s.engine.POST("/tools/get_guba_comments", s.handleGetGubaComments)
}

// handleHealth answers container orchestration health checks. It carries no
// business logic and succeeds regardless of scraper state.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleGetGubaComments(c *gin.Context) {
	var req ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body field 'stock_code' is required"})
		return
	}

	result, err := s.scraper.Scrape(c.Request.Context(), req.StockCode)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidStockCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, scraper.ErrAllPagesFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stock_code": req.StockCode,
		"comments":   result,
	})
}

// Handler returns the underlying HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server on addr and blocks
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}
