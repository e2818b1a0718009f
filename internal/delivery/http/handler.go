package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisonService *usecase.ComparisonService
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisonService *usecase.ComparisonService) *Handler {
	return &Handler{comparisonService: comparisonService}
}

// compareRequest is the body of a single-item comparison request
type compareRequest struct {
	SourceName string `json:"sourceName" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"service":         "pricelens-backend",
		"version":         "1.0.0",
		"droppedListings": h.comparisonService.DroppedListings(),
	})
}

// Compare handles an on-demand comparison for one submitted catalog name.
// The response always carries a record; an unreachable target marketplace
// shows up as empty prices, matching the batch pipeline's semantics.
func (h *Handler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "sourceName is required",
		})
		return
	}

	if strings.TrimSpace(req.SourceName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": domain.ErrInvalidInput.Error(),
		})
		return
	}

	record := h.comparisonService.Compare(c.Request.Context(), domain.CatalogItem{
		SourceName: req.SourceName,
	})

	c.JSON(http.StatusOK, record)
}
