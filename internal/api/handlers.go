package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reliastack/relia-engine/internal/services"
	"github.com/reliastack/relia-engine/internal/utils"
)

// Handlers binds the analysis service to the HTTP routes.
type Handlers struct {
	svc    *services.AnalysisService
	logger *slog.Logger
}

// NewHandlers constructs the handler set.
func NewHandlers(svc *services.AnalysisService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{svc: svc, logger: logger}
}

// Register attaches all routes to the router.
func (h *Handlers) Register(router *gin.Engine) {
	router.GET("/healthz", h.health)

	v1 := router.Group("/api/v1")
	v1.GET("/blocks", h.listBlocks)
	v1.POST("/blocks/evaluate", h.evaluate)
	v1.POST("/analysis/montecarlo", h.monteCarlo)
	v1.POST("/analysis/sensitivity", h.sensitivity)
	v1.POST("/analysis/sobol", h.sobol)
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) listBlocks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"blocks": h.svc.ListBlocks()})
}

func (h *Handlers) evaluate(c *gin.Context) {
	var dto EvaluateRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	group, err := h.svc.Evaluate(c.Request.Context(), toEvaluateRequest(dto))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fromGroupResult(group))
}

func (h *Handlers) monteCarlo(c *gin.Context) {
	var dto MonteCarloRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	run, err := h.svc.MonteCarlo(c.Request.Context(), toMonteCarloRequest(dto))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fromMonteCarloRun(run))
}

func (h *Handlers) sensitivity(c *gin.Context) {
	var dto SensitivityRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	results, err := h.svc.Sensitivity(c.Request.Context(), toSensitivityRequest(dto))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": fromSensitivityResults(results)})
}

func (h *Handlers) sobol(c *gin.Context) {
	var dto SobolRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	indices, err := h.svc.Sobol(c.Request.Context(), toSobolRequest(dto))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"indices": fromSobolIndices(indices)})
}

// fail maps service errors onto HTTP status codes.
func (h *Handlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownBlock):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoStudy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("analysis request failed",
			slog.String("stage", utils.OpOf(err)),
			slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
