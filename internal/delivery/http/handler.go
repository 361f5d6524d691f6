package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/merchai/backend/internal/domain"
	"github.com/merchai/backend/internal/usecase"
)

// StatusClientClosedRequest is the nginx convention for a request the
// client abandoned; used for cooperatively aborted runs.
const StatusClientClosedRequest = 499

// RelevanceService is the orchestration surface the handler depends on
type RelevanceService interface {
	AnalyzeRelevance(ctx context.Context, req usecase.AnalyzeRequest) (*domain.WorkflowResult, error)
	GetContext(ctx context.Context, query string, mode domain.RouterMode) (*domain.ContextResult, error)
	ExtractProduct(ctx context.Context, url, query string) (*domain.ProductRecord, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service RelevanceService
}

// NewHandler creates a new HTTP handler
func NewHandler(service RelevanceService) *Handler {
	return &Handler{service: service}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "merchai-backend",
		"version": "1.0.0",
	})
}

// analyzeRequest is the request body for relevance analysis
type analyzeRequest struct {
	Query      string                `json:"query" binding:"required"`
	URL        string                `json:"url"`
	Product    *domain.ProductRecord `json:"product"`
	RouterMode string                `json:"routerMode"`
}

// AnalyzeRelevance runs the full workflow for a query/product pair
func (h *Handler) AnalyzeRelevance(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	fallback := domain.ProductRecord{}
	if req.Product != nil {
		fallback = *req.Product
	}

	result, err := h.service.AnalyzeRelevance(c.Request.Context(), usecase.AnalyzeRequest{
		Query:      req.Query,
		URL:        req.URL,
		Fallback:   fallback,
		RouterMode: domain.RouterMode(req.RouterMode),
	})
	if err != nil {
		respondError(c, err, "analysis")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"band":   result.Analysis.Band(),
	})
}

// contextRequest is the request body for the standalone context endpoint
type contextRequest struct {
	Query      string `json:"query" binding:"required"`
	RouterMode string `json:"routerMode"`
}

// GetContext runs the context branch standalone (e.g. for UI auto-fill)
func (h *Handler) GetContext(c *gin.Context) {
	var req contextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.service.GetContext(c.Request.Context(), req.Query, domain.RouterMode(req.RouterMode))
	if err != nil {
		respondError(c, err, "context")
		return
	}

	c.JSON(http.StatusOK, result)
}

// extractRequest is the request body for the standalone extraction endpoint
type extractRequest struct {
	URL   string `json:"url" binding:"required"`
	Query string `json:"query"`
}

// ExtractProduct runs the extraction branch standalone
func (h *Handler) ExtractProduct(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	record, err := h.service.ExtractProduct(c.Request.Context(), req.URL, req.Query)
	if err != nil {
		respondError(c, err, "extraction")
		return
	}

	c.JSON(http.StatusOK, record)
}

// respondError maps the error taxonomy onto HTTP statuses. Aborted runs are
// a deliberate non-error from the caller's perspective; parse and upstream
// failures from the value-critical steps surface as retryable.
func respondError(c *gin.Context, err error, step string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAborted):
		c.JSON(StatusClientClosedRequest, gin.H{"error": "run superseded or cancelled"})
	case errors.Is(err, domain.ErrParseFailure):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "the " + step + " step returned an unusable response, please retry",
			"step":      step,
			"retryable": true,
		})
	case errors.Is(err, domain.ErrUpstreamFailure):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "the " + step + " step failed upstream, please retry",
			"step":      step,
			"retryable": true,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
