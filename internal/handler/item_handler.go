package handler

import (
	"errors"
	"net/http"

	"salesboard/internal/service"
	"salesboard/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	reportService service.ReportService
}

func NewItemHandler(reportService service.ReportService) *ItemHandler {
	return &ItemHandler{reportService: reportService}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	{
		items.GET("/:item_id", h.GetItem)
		items.GET("/:item_id/history", h.GetItemHistory)
	}
}

// @Summary      Get Item Detail
// @Description  Current attribute snapshot of one item, taken from its most recent sale event
// @Tags         Items
// @Produce      json
// @Param        item_id path string true "Item identifier"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "Item has no recorded sales"
// @Failure      500 {object} response.Response "Query failed"
// @Router       /api/items/{item_id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	detail, err := h.reportService.GetItemDetail(c.Request.Context(), c.Param("item_id"))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "item not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, detail))
}

// @Summary      Get Item Sale History
// @Description  Full chronological (date, quantity) history of one item
// @Tags         Items
// @Produce      json
// @Param        item_id path string true "Item identifier"
// @Success      200 {object} response.Response
// @Failure      500 {object} response.Response "Query failed"
// @Router       /api/items/{item_id}/history [get]
func (h *ItemHandler) GetItemHistory(c *gin.Context) {
	history, err := h.reportService.GetItemHistory(c.Request.Context(), c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}
