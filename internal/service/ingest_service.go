package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salesboard/internal/model"
	"salesboard/internal/repository"
	ws "salesboard/internal/websocket"

	"github.com/shopspring/decimal"
)

// ErrInvalidEvent marks payload problems (bad date or price) as distinct
// from storage failures.
var ErrInvalidEvent = errors.New("invalid sale event")

// IngestEventRequest is one sale event as submitted by a collector.
type IngestEventRequest struct {
	ItemID     string `json:"item_id" binding:"required"`
	SoldDate   string `json:"sold_date" binding:"required"` // YYYY-MM-DD
	Quantity   int    `json:"quantity"`
	Price      string `json:"price" binding:"required"`
	Title      string `json:"title" binding:"required"`
	SKU        string `json:"sku"`
	ImageURL   string `json:"image_url"`
	ProductURL string `json:"product_url"`
}

// Websocket payload
type IngestNotification struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

type IngestService interface {
	IngestEvents(ctx context.Context, reqs []IngestEventRequest) (int, error)
}

type ingestService struct {
	eventRepo repository.SaleEventRepository
	auditRepo repository.ReportAuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewIngestService(eventRepo repository.SaleEventRepository, auditRepo repository.ReportAuditRepository, txManager repository.TransactionManager, hub *ws.Hub) IngestService {
	return &ingestService{eventRepo: eventRepo, auditRepo: auditRepo, txManager: txManager, hub: hub}
}

// IngestEvents appends a batch of sale events to the log. The batch and
// its audit row land in one transaction; connected dashboards get an
// events_ingested notification afterwards so they can re-query.
func (s *ingestService) IngestEvents(ctx context.Context, reqs []IngestEventRequest) (int, error) {
	events := make([]model.SaleEvent, 0, len(reqs))
	for i, req := range reqs {
		soldDate, err := time.Parse("2006-01-02", req.SoldDate)
		if err != nil {
			return 0, fmt.Errorf("%w: event %d has sold_date %q, expected YYYY-MM-DD", ErrInvalidEvent, i, req.SoldDate)
		}
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			return 0, fmt.Errorf("%w: event %d has unparseable price %q", ErrInvalidEvent, i, req.Price)
		}
		quantity := req.Quantity
		if quantity < 1 {
			quantity = 1
		}
		events = append(events, model.SaleEvent{
			ItemID:     req.ItemID,
			SoldDate:   soldDate,
			Quantity:   quantity,
			Price:      price,
			Title:      req.Title,
			SKU:        req.SKU,
			ImageURL:   req.ImageURL,
			ProductURL: req.ProductURL,
		})
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.eventRepo.CreateBatch(txCtx, events); err != nil {
			return err
		}
		details, _ := json.Marshal(map[string]interface{}{"count": len(events)})
		return s.auditRepo.Log(txCtx, &model.ReportAudit{
			Action:   model.ActionIngestEvents,
			Details:  string(details),
			RowCount: len(events),
		})
	})
	if err != nil {
		return 0, err
	}

	s.notify(len(events))
	return len(events), nil
}

func (s *ingestService) notify(count int) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(IngestNotification{
		Event: "events_ingested",
		Data:  map[string]interface{}{"count": count},
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}
