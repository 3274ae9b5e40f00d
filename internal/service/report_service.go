package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"salesboard/internal/model"
	"salesboard/internal/repository"
	"salesboard/internal/rollup"

	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("item not found")

// ReportQuery carries one aggregation request from the HTTP layer.
// A zero Now means "current time"; the engine itself never consults the
// wall clock.
type ReportQuery struct {
	Now        time.Time
	StartDate  time.Time
	EndDate    time.Time
	Thresholds rollup.Thresholds
	Search     string
	SKU        string
	PriceMin   decimal.Decimal
	PriceMax   decimal.Decimal
}

type ReportService interface {
	GetSoldItems(ctx context.Context, q ReportQuery) (model.SoldItemsReport, error)
	ExportSoldItems(ctx context.Context, q ReportQuery) (model.SoldItemsReport, error)
	GetItemDetail(ctx context.Context, itemID string) (model.ItemDetail, error)
	GetItemHistory(ctx context.Context, itemID string) ([]model.SalePoint, error)
}

type reportService struct {
	eventRepo repository.SaleEventRepository
	auditRepo repository.ReportAuditRepository
	mode      rollup.CountMode
}

func NewReportService(eventRepo repository.SaleEventRepository, auditRepo repository.ReportAuditRepository, mode rollup.CountMode) ReportService {
	return &reportService{eventRepo: eventRepo, auditRepo: auditRepo, mode: mode}
}

// GetSoldItems loads the full event snapshot and runs the rollup pipeline
// over it. The whole request is a pure function of (snapshot, now, range,
// thresholds, search); nothing is cached between calls.
func (s *reportService) GetSoldItems(ctx context.Context, q ReportQuery) (model.SoldItemsReport, error) {
	return s.run(ctx, q, model.ActionRunReport)
}

// ExportSoldItems is the same pipeline audited as an export.
func (s *reportService) ExportSoldItems(ctx context.Context, q ReportQuery) (model.SoldItemsReport, error) {
	return s.run(ctx, q, model.ActionExportReport)
}

func (s *reportService) run(ctx context.Context, q ReportQuery, action string) (model.SoldItemsReport, error) {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	records, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return model.SoldItemsReport{}, err
	}

	result, err := rollup.Run(toEngineEvents(records), rollup.Query{
		Now:        now,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Mode:       s.mode,
		Thresholds: q.Thresholds,
		Search:     q.Search,
		SKU:        q.SKU,
		PriceMin:   q.PriceMin,
		PriceMax:   q.PriceMax,
	})
	if err != nil {
		return model.SoldItemsReport{}, err
	}

	s.audit(ctx, action, q, result.PostFilterCount)

	return model.SoldItemsReport{
		Rows:            result.Rows,
		PreFilterCount:  result.PreFilterCount,
		PostFilterCount: result.PostFilterCount,
		GrandTotals:     result.GrandTotals,
		Now:             now,
		StartDate:       q.StartDate,
		EndDate:         q.EndDate,
	}, nil
}

// GetItemDetail resolves the current attribute snapshot of a single item
// from its own event history.
func (s *reportService) GetItemDetail(ctx context.Context, itemID string) (model.ItemDetail, error) {
	records, err := s.eventRepo.EventsByItem(ctx, itemID)
	if err != nil {
		return model.ItemDetail{}, err
	}
	if len(records) == 0 {
		return model.ItemDetail{}, ErrItemNotFound
	}

	events := toEngineEvents(records)
	attrs, ok := rollup.LatestAttributes(events)[itemID]
	if !ok {
		return model.ItemDetail{}, fmt.Errorf("no attribute snapshot resolved for item %s", itemID)
	}

	detail := model.ItemDetail{
		ItemID:     itemID,
		Title:      attrs.Title,
		SKU:        attrs.SKU,
		Price:      attrs.Price,
		ImageURL:   attrs.ImageURL,
		ProductURL: attrs.ProductURL,
		FirstSale:  records[0].SoldDate,
		LastSale:   records[0].SoldDate,
	}
	for _, rec := range records {
		if s.mode == rollup.SumQuantity {
			detail.TotalSold += int64(rec.Quantity)
		} else {
			detail.TotalSold++
		}
	}
	for _, rec := range records[1:] {
		if rec.SoldDate.Before(detail.FirstSale) {
			detail.FirstSale = rec.SoldDate
		}
		if rec.SoldDate.After(detail.LastSale) {
			detail.LastSale = rec.SoldDate
		}
	}
	return detail, nil
}

func (s *reportService) GetItemHistory(ctx context.Context, itemID string) ([]model.SalePoint, error) {
	return s.eventRepo.HistoryByItem(ctx, itemID)
}

// audit records the request parameters; a failed audit write never fails
// the report itself.
func (s *reportService) audit(ctx context.Context, action string, q ReportQuery, rowCount int) {
	details, err := json.Marshal(map[string]interface{}{
		"start_date": q.StartDate.Format("2006-01-02"),
		"end_date":   q.EndDate.Format("2006-01-02"),
		"search":     q.Search,
	})
	if err != nil {
		details = []byte("{}")
	}
	entry := &model.ReportAudit{Action: action, Details: string(details), RowCount: rowCount}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		log.Printf("WARNING: failed to write report audit entry: %v", err)
	}
}

func toEngineEvents(records []model.SaleEvent) []rollup.Event {
	events := make([]rollup.Event, 0, len(records))
	for _, rec := range records {
		events = append(events, rollup.Event{
			Seq:        rec.ID,
			ItemID:     rec.ItemID,
			SoldDate:   rec.SoldDate,
			Quantity:   rec.Quantity,
			Price:      rec.Price,
			Title:      rec.Title,
			SKU:        rec.SKU,
			ImageURL:   rec.ImageURL,
			ProductURL: rec.ProductURL,
		})
	}
	return events
}
