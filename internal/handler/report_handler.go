package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"salesboard/internal/rollup"
	"salesboard/internal/service"
	"salesboard/pkg/pagination"
	"salesboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type ReportHandler struct {
	reportService service.ReportService
	exportService service.ExportService
}

func NewReportHandler(reportService service.ReportService, exportService service.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/sold-items", h.GetSoldItems)
		reports.GET("/sold-items/export", h.ExportSoldItems)
	}
}

// parseReportQuery maps HTTP query parameters onto one engine request.
// Dates default to today (matching the dashboard's date pickers); an
// inverted range is passed through untouched, the engine treats it as an
// empty custom window. Threshold values that fail to parse are ignored —
// they end up as 0, which means unconstrained.
func parseReportQuery(c *gin.Context) (service.ReportQuery, error) {
	var q service.ReportQuery

	today := time.Now().Format(dateLayout)
	start, err := time.Parse(dateLayout, c.DefaultQuery("start_date", today))
	if err != nil {
		return q, fmt.Errorf("invalid start_date, expected YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, c.DefaultQuery("end_date", today))
	if err != nil {
		return q, fmt.Errorf("invalid end_date, expected YYYY-MM-DD")
	}
	q.StartDate = start
	q.EndDate = end

	if nowStr := c.Query("now"); nowStr != "" {
		now, err := time.Parse(dateLayout, nowStr)
		if err != nil {
			return q, fmt.Errorf("invalid now, expected YYYY-MM-DD")
		}
		q.Now = now
	}

	q.Thresholds = rollup.Thresholds{
		Min7:      intQuery(c, "min_7"),
		Min14:     intQuery(c, "min_14"),
		Min21:     intQuery(c, "min_21"),
		Min30:     intQuery(c, "min_30"),
		MinCustom: intQuery(c, "min_custom"),
		MinTotal:  intQuery(c, "min_total"),
	}
	q.Search = c.Query("search")
	q.SKU = c.Query("sku")
	q.PriceMin = decimalQuery(c, "price_min")
	q.PriceMax = decimalQuery(c, "price_max")

	return q, nil
}

func intQuery(c *gin.Context, name string) int64 {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func decimalQuery(c *gin.Context, name string) decimal.Decimal {
	v, err := decimal.NewFromString(c.Query(name))
	if err != nil {
		return decimal.Zero
	}
	return v
}

// @Summary      Get Sold Items Report
// @Description  Per-item rollup of rolling-window sale counts, latest attributes and grand totals
// @Tags         Reports
// @Produce      json
// @Param        start_date query string false "Custom range start (YYYY-MM-DD, default today)"
// @Param        end_date   query string false "Custom range end (YYYY-MM-DD, default today)"
// @Param        now        query string false "Window anchor date (YYYY-MM-DD, default current time)"
// @Param        min_7      query int    false "Minimum 7-day sales"
// @Param        min_14     query int    false "Minimum 14-day sales"
// @Param        min_21     query int    false "Minimum 21-day sales"
// @Param        min_30     query int    false "Minimum 30-day sales"
// @Param        min_custom query int    false "Minimum custom-range sales"
// @Param        min_total  query int    false "Minimum all-time sales"
// @Param        search     query string false "Case-insensitive title substring"
// @Param        sku        query string false "Case-insensitive SKU substring"
// @Param        price_min  query number false "Minimum current price"
// @Param        price_max  query number false "Maximum current price"
// @Param        page       query int    false "Page number"
// @Param        limit      query int    false "Rows per page (max 500)"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "Invalid date format"
// @Failure      500 {object} response.Response "Query failed"
// @Router       /api/reports/sold-items [get]
func (h *ReportHandler) GetSoldItems(c *gin.Context) {
	q, err := parseReportQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	report, err := h.reportService.GetSoldItems(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	params := pagination.Parse(c)
	lo, hi := params.Bounds(len(report.Rows))
	page := report
	page.Rows = report.Rows[lo:hi]

	c.JSON(http.StatusOK, response.SuccessWithMeta(http.StatusOK, page, response.Meta{
		Page:            params.Page,
		Limit:           params.Limit,
		TotalRows:       len(report.Rows),
		PreFilterCount:  report.PreFilterCount,
		PostFilterCount: report.PostFilterCount,
	}))
}

// @Summary      Export Sold Items Report
// @Description  Download the filtered report as CSV (default) or XLSX
// @Tags         Reports
// @Produce      text/csv
// @Param        format     query string false "csv or xlsx" default(csv)
// @Param        start_date query string false "Custom range start (YYYY-MM-DD)"
// @Param        end_date   query string false "Custom range end (YYYY-MM-DD)"
// @Param        search     query string false "Case-insensitive title substring"
// @Param        sku        query string false "Case-insensitive SKU substring"
// @Param        price_min  query number false "Minimum current price"
// @Param        price_max  query number false "Maximum current price"
// @Success      200 {file} file
// @Failure      400 {object} response.Response "Invalid parameters"
// @Failure      500 {object} response.Response "Export failed"
// @Router       /api/reports/sold-items/export [get]
func (h *ReportHandler) ExportSoldItems(c *gin.Context) {
	q, err := parseReportQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "format must be csv or xlsx"))
		return
	}

	report, err := h.reportService.ExportSoldItems(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	filename := fmt.Sprintf("sold_items_%s_%s.%s",
		q.StartDate.Format(dateLayout), q.EndDate.Format(dateLayout), format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if format == "xlsx" {
		buf, err := h.exportService.BuildXLSX(report.Rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
			return
		}
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.exportService.WriteCSV(c.Writer, report.Rows); err != nil {
		// Headers already sent; nothing left to do but log via gin's error list.
		_ = c.Error(err)
	}
}
