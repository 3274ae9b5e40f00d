package handler

import (
	"errors"
	"net/http"

	"salesboard/internal/middleware"
	"salesboard/internal/service"
	"salesboard/pkg/response"

	"github.com/gin-gonic/gin"
)

type IngestRequest struct {
	Events []service.IngestEventRequest `json:"events" binding:"required,min=1,dive"`
}

type IngestHandler struct {
	ingestService service.IngestService
}

func NewIngestHandler(ingestService service.IngestService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService}
}

func (h *IngestHandler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/api/events")
	{
		events.POST("", middleware.RequireIngestToken(), h.IngestEvents)
	}
}

// @Summary      Ingest Sale Events
// @Description  Append a batch of sale events to the log (insert-only)
// @Tags         Events
// @Accept       json
// @Produce      json
// @Param        request body IngestRequest true "Events to append"
// @Success      201 {object} response.Response
// @Failure      400 {object} response.Response "Malformed payload"
// @Failure      401 {object} response.Response "Missing or invalid token"
// @Failure      500 {object} response.Response "Insert failed"
// @Security     BearerAuth
// @Router       /api/events [post]
func (h *IngestHandler) IngestEvents(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	count, err := h.ingestService.IngestEvents(c.Request.Context(), req.Events)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEvent) {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"ingested": count}))
}
