package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

// IngestionService is the usecase surface the handlers need
type IngestionService interface {
	Catalog(ctx context.Context) ([]domain.CatalogEntry, error)
	MatchItems(ctx context.Context, request *domain.MatchRequest) (*domain.MatchSession, error)
	MatchText(ctx context.Context, request *domain.TextMatchRequest) (*domain.MatchSession, error)
	GetSession(ctx context.Context, id string) (*domain.MatchSession, error)
	ClearSession(ctx context.Context, id string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service IngestionService
}

// NewHandler creates a new HTTP handler. A nil service makes the API
// endpoints answer 501.
func NewHandler(service IngestionService) *Handler {
	return &Handler{service: service}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "earlybird-catalog-matcher",
		"version": "1.0.0",
	})
}

// ListCatalog returns the shared product catalog
func (h *Handler) ListCatalog(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	entries, err := h.service.Catalog(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// MatchItems handles batch matching of already tokenized items
func (h *Handler) MatchItems(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var request domain.MatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	session, err := h.service.MatchItems(c.Request.Context(), &request)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// MatchText handles raw transcript or OCR text
func (h *Handler) MatchText(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var request domain.TextMatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	session, err := h.service.MatchText(c.Request.Context(), &request)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetSession returns a stored match session for review
func (h *Handler) GetSession(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ClearSession removes a stored match session
func (h *Handler) ClearSession(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	if err := h.service.ClearSession(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.service == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Matching service not configured",
		})
		return false
	}
	return true
}

// handleError maps domain errors to HTTP status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnknownSource):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Match session not found or expired",
		})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Catalog temporarily unavailable",
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{
			"error": "Request cancelled",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
