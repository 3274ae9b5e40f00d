package handler

import (
	"net/http"

	"salesboard/internal/middleware"
	"salesboard/internal/service"
	"salesboard/pkg/pagination"
	"salesboard/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audits := router.Group("/api/audit-logs")
	{
		audits.GET("", middleware.RequireIngestToken(), h.GetAuditLogs)
	}
}

// @Summary      Get Audit Logs
// @Description  Paginated report/export/ingest audit trail, newest first
// @Tags         Audit
// @Produce      json
// @Param        page  query int false "Page number"
// @Param        limit query int false "Rows per page (max 500)"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "Missing or invalid token"
// @Failure      500 {object} response.Response "Query failed"
// @Security     BearerAuth
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}
