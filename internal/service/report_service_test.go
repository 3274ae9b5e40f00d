package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"salesboard/internal/model"
	"salesboard/internal/rollup"

	"github.com/shopspring/decimal"
)

type fakeEventRepo struct {
	events []model.SaleEvent
	err    error
}

func (f *fakeEventRepo) ListAll(_ context.Context) ([]model.SaleEvent, error) {
	return f.events, f.err
}

func (f *fakeEventRepo) EventsByItem(_ context.Context, itemID string) ([]model.SaleEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.SaleEvent
	for _, ev := range f.events {
		if ev.ItemID == itemID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) HistoryByItem(_ context.Context, _ string) ([]model.SalePoint, error) {
	return nil, f.err
}

func (f *fakeEventRepo) CreateBatch(_ context.Context, events []model.SaleEvent) error {
	f.events = append(f.events, events...)
	return f.err
}

type fakeAuditRepo struct {
	entries []model.ReportAudit
	err     error
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.ReportAudit) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.ReportAudit, int64, error) {
	return f.entries, int64(len(f.entries)), f.err
}

func saleEvent(id uint64, item string, sold time.Time, qty int, price, title string) model.SaleEvent {
	return model.SaleEvent{
		ID:       id,
		ItemID:   item,
		SoldDate: sold,
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
		Title:    title,
	}
}

func TestReportService_GetSoldItems(t *testing.T) {
	repo := &fakeEventRepo{events: []model.SaleEvent{
		saleEvent(1, "A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1, "10.00", "Widget"),
		saleEvent(2, "A", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), 1, "12.00", "Widget"),
		saleEvent(3, "B", time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC), 1, "5.00", "Gadget"),
	}}
	audit := &fakeAuditRepo{}
	svc := NewReportService(repo, audit, rollup.CountRows)

	report, err := svc.GetSoldItems(context.Background(), ReportQuery{
		Now:       time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
		StartDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("GetSoldItems() failed: %v", err)
	}

	if report.PreFilterCount != 2 || report.PostFilterCount != 2 {
		t.Errorf("counts = %d/%d, want 2/2", report.PreFilterCount, report.PostFilterCount)
	}
	if report.GrandTotals.Sold30d != 3 {
		t.Errorf("grand sold_30d = %d, want 3", report.GrandTotals.Sold30d)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.ActionRunReport {
		t.Errorf("expected one RUN_REPORT audit entry, got %+v", audit.entries)
	}
	if audit.entries[0].RowCount != 2 {
		t.Errorf("audited row count = %d, want 2", audit.entries[0].RowCount)
	}
}

func TestReportService_AuditFailureIsNotFatal(t *testing.T) {
	repo := &fakeEventRepo{events: []model.SaleEvent{
		saleEvent(1, "A", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), 1, "10.00", "Widget"),
	}}
	svc := NewReportService(repo, &fakeAuditRepo{err: errors.New("audit table gone")}, rollup.CountRows)

	report, err := svc.GetSoldItems(context.Background(), ReportQuery{
		Now:       time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("a failed audit write must not fail the report: %v", err)
	}
	if report.PostFilterCount != 1 {
		t.Errorf("post-filter count = %d, want 1", report.PostFilterCount)
	}
}

func TestReportService_StoreFailureSurfaces(t *testing.T) {
	svc := NewReportService(&fakeEventRepo{err: errors.New("connection refused")}, &fakeAuditRepo{}, rollup.CountRows)

	_, err := svc.GetSoldItems(context.Background(), ReportQuery{})
	if err == nil {
		t.Fatal("expected the store failure to surface")
	}
}

func TestReportService_SKUAndPriceFilters(t *testing.T) {
	widget := saleEvent(1, "A", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), 1, "10.00", "Widget")
	widget.SKU = "BLU-100"
	gadget := saleEvent(2, "B", time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC), 1, "5.00", "Gadget")
	gadget.SKU = "RED-200"
	repo := &fakeEventRepo{events: []model.SaleEvent{widget, gadget}}
	svc := NewReportService(repo, &fakeAuditRepo{}, rollup.CountRows)

	base := ReportQuery{
		Now:       time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	bySKU := base
	bySKU.SKU = "blu"
	report, err := svc.GetSoldItems(context.Background(), bySKU)
	if err != nil {
		t.Fatalf("GetSoldItems() failed: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].ItemID != "A" {
		t.Errorf("sku filter rows = %+v, want item A only", report.Rows)
	}
	if report.PreFilterCount != 2 {
		t.Errorf("pre-filter count = %d, want 2", report.PreFilterCount)
	}

	byPrice := base
	byPrice.PriceMax = decimal.RequireFromString("6.00")
	report, err = svc.GetSoldItems(context.Background(), byPrice)
	if err != nil {
		t.Fatalf("GetSoldItems() failed: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].ItemID != "B" {
		t.Errorf("price ceiling rows = %+v, want item B only", report.Rows)
	}
}

func TestReportService_GetItemDetail(t *testing.T) {
	old := saleEvent(1, "A", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 2, "10.00", "Old Widget")
	old.SKU = "WID-001"
	latest := saleEvent(2, "A", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), 3, "12.00", "New Widget")
	latest.SKU = "WID-002"
	repo := &fakeEventRepo{events: []model.SaleEvent{old, latest}}
	svc := NewReportService(repo, &fakeAuditRepo{}, rollup.SumQuantity)

	detail, err := svc.GetItemDetail(context.Background(), "A")
	if err != nil {
		t.Fatalf("GetItemDetail() failed: %v", err)
	}
	if detail.Title != "New Widget" {
		t.Errorf("title = %q, want the latest event's title", detail.Title)
	}
	if detail.SKU != "WID-002" {
		t.Errorf("sku = %q, want the latest event's SKU", detail.SKU)
	}
	if detail.TotalSold != 5 {
		t.Errorf("total sold = %d, want 5 (quantity mode)", detail.TotalSold)
	}
	if !detail.FirstSale.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) ||
		!detail.LastSale.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first/last sale = %s/%s", detail.FirstSale, detail.LastSale)
	}

	if _, err := svc.GetItemDetail(context.Background(), "nope"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("unknown item: err = %v, want ErrItemNotFound", err)
	}
}
