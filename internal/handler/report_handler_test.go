package handler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salesboard/internal/model"
	"salesboard/internal/rollup"
	"salesboard/internal/service"
	"salesboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type stubReportService struct {
	report    model.SoldItemsReport
	err       error
	lastQuery service.ReportQuery
}

func (s *stubReportService) GetSoldItems(_ context.Context, q service.ReportQuery) (model.SoldItemsReport, error) {
	s.lastQuery = q
	return s.report, s.err
}

func (s *stubReportService) ExportSoldItems(_ context.Context, q service.ReportQuery) (model.SoldItemsReport, error) {
	s.lastQuery = q
	return s.report, s.err
}

func (s *stubReportService) GetItemDetail(_ context.Context, itemID string) (model.ItemDetail, error) {
	if itemID == "known" {
		return model.ItemDetail{ItemID: "known", Title: "Widget"}, nil
	}
	return model.ItemDetail{}, service.ErrItemNotFound
}

func (s *stubReportService) GetItemHistory(_ context.Context, _ string) ([]model.SalePoint, error) {
	return []model.SalePoint{{SoldDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Quantity: 2}}, nil
}

func testReport(n int) model.SoldItemsReport {
	rows := make([]rollup.ItemRollup, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, rollup.ItemRollup{
			ItemID:       string(rune('A' + i)),
			Title:        "Item " + string(rune('A'+i)),
			CurrentPrice: decimal.RequireFromString("9.99"),
			Metrics:      rollup.Metrics{SoldTotal: int64(n - i)},
		})
	}
	return model.SoldItemsReport{
		Rows:            rows,
		PreFilterCount:  n + 2,
		PostFilterCount: n,
	}
}

func newTestRouter(stub *stubReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewReportHandler(stub, service.NewExportService()).RegisterRoutes(router.Group(""))
	NewItemHandler(stub).RegisterRoutes(router.Group(""))
	return router
}

type reportEnvelope struct {
	Status string                `json:"status"`
	Data   model.SoldItemsReport `json:"data"`
	Meta   response.Meta         `json:"meta"`
	Error  string                `json:"error"`
}

func TestGetSoldItems_ParsesQuery(t *testing.T) {
	stub := &stubReportService{report: testReport(3)}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet,
		"/api/reports/sold-items?start_date=2024-01-15&end_date=2024-01-31&now=2024-01-30&min_7=2&min_total=oops&search=widget&sku=blu&price_min=4.50&price_max=oops", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	q := stub.lastQuery
	if got := q.StartDate.Format("2006-01-02"); got != "2024-01-15" {
		t.Errorf("start_date = %s", got)
	}
	if got := q.EndDate.Format("2006-01-02"); got != "2024-01-31" {
		t.Errorf("end_date = %s", got)
	}
	if got := q.Now.Format("2006-01-02"); got != "2024-01-30" {
		t.Errorf("now = %s", got)
	}
	if q.Thresholds.Min7 != 2 {
		t.Errorf("min_7 = %d, want 2", q.Thresholds.Min7)
	}
	if q.Thresholds.MinTotal != 0 {
		t.Errorf("unparseable min_total should fall back to 0, got %d", q.Thresholds.MinTotal)
	}
	if q.Search != "widget" {
		t.Errorf("search = %q", q.Search)
	}
	if q.SKU != "blu" {
		t.Errorf("sku = %q", q.SKU)
	}
	if !q.PriceMin.Equal(decimal.RequireFromString("4.50")) {
		t.Errorf("price_min = %s, want 4.50", q.PriceMin)
	}
	if !q.PriceMax.IsZero() {
		t.Errorf("unparseable price_max should fall back to 0, got %s", q.PriceMax)
	}

	var env reportEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if env.Meta.PreFilterCount != 5 || env.Meta.PostFilterCount != 3 {
		t.Errorf("meta counts = %d/%d, want 5/3", env.Meta.PreFilterCount, env.Meta.PostFilterCount)
	}
	if len(env.Data.Rows) != 3 {
		t.Errorf("rows = %d, want 3", len(env.Data.Rows))
	}
}

func TestGetSoldItems_BadDate(t *testing.T) {
	router := newTestRouter(&stubReportService{report: testReport(0)})

	req := httptest.NewRequest(http.MethodGet, "/api/reports/sold-items?start_date=31-01-2024", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetSoldItems_Pagination(t *testing.T) {
	stub := &stubReportService{report: testReport(5)}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/sold-items?page=2&limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env reportEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(env.Data.Rows) != 2 {
		t.Fatalf("page 2 rows = %d, want 2", len(env.Data.Rows))
	}
	if env.Data.Rows[0].ItemID != "C" {
		t.Errorf("page 2 starts at %q, want C", env.Data.Rows[0].ItemID)
	}
	if env.Meta.TotalRows != 5 || env.Meta.Page != 2 || env.Meta.Limit != 2 {
		t.Errorf("meta = %+v", env.Meta)
	}

	// A page past the end is empty, not an error.
	req = httptest.NewRequest(http.MethodGet, "/api/reports/sold-items?page=9&limit=2", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if w.Code != http.StatusOK || len(env.Data.Rows) != 0 {
		t.Errorf("past-the-end page: status %d, rows %d", w.Code, len(env.Data.Rows))
	}
}

func TestExportSoldItems_CSV(t *testing.T) {
	stub := &stubReportService{report: testReport(2)}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/sold-items/export?start_date=2024-01-01&end_date=2024-01-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "sold_items_2024-01-01_2024-01-31.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("body is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected header + 2 rows, got %d", len(records))
	}
}

func TestExportSoldItems_BadFormat(t *testing.T) {
	router := newTestRouter(&stubReportService{report: testReport(0)})

	req := httptest.NewRequest(http.MethodGet, "/api/reports/sold-items/export?format=pdf", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	router := newTestRouter(&stubReportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/items/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/items/known", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
