package repository

import (
	"context"
	"fmt"
	"time"

	"salesboard/internal/model"

	"gorm.io/gorm"
)

type SaleEventRepository interface {
	ListAll(ctx context.Context) ([]model.SaleEvent, error)
	EventsByItem(ctx context.Context, itemID string) ([]model.SaleEvent, error)
	HistoryByItem(ctx context.Context, itemID string) ([]model.SalePoint, error)
	CreateBatch(ctx context.Context, events []model.SaleEvent) error
}

type saleEventRepository struct {
	db *gorm.DB
}

func NewSaleEventRepository(db *gorm.DB) SaleEventRepository {
	return &saleEventRepository{db: db}
}

// ListAll returns the full event log ordered by insertion (id ascending),
// which is the order the engine's tie-break relies on.
func (r *saleEventRepository) ListAll(ctx context.Context) ([]model.SaleEvent, error) {
	var events []model.SaleEvent
	if err := GetDB(ctx, r.db).Order("id asc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load sale events: %w", err)
	}
	return events, nil
}

func (r *saleEventRepository) EventsByItem(ctx context.Context, itemID string) ([]model.SaleEvent, error) {
	var events []model.SaleEvent
	if err := GetDB(ctx, r.db).Where("item_id = ?", itemID).Order("id asc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load events for item %s: %w", itemID, err)
	}
	return events, nil
}

// HistoryByItem collapses the event log into one (date, quantity) row per
// sold date, chronologically, for the drill-down view.
func (r *saleEventRepository) HistoryByItem(ctx context.Context, itemID string) ([]model.SalePoint, error) {
	query := `
		SELECT sold_date, SUM(quantity) AS quantity
		FROM sale_events
		WHERE item_id = $1
		GROUP BY sold_date
		ORDER BY sold_date
	`

	type historyRow struct {
		SoldDate time.Time `gorm:"column:sold_date"`
		Quantity int       `gorm:"column:quantity"`
	}

	var rows []historyRow
	if err := GetDB(ctx, r.db).Raw(query, itemID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query sale history for item %s: %w", itemID, err)
	}

	points := make([]model.SalePoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, model.SalePoint{SoldDate: row.SoldDate, Quantity: row.Quantity})
	}
	return points, nil
}

// CreateBatch appends events to the log. The log is insert-only; no update
// or delete path exists on purpose.
func (r *saleEventRepository) CreateBatch(ctx context.Context, events []model.SaleEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := GetDB(ctx, r.db).Create(&events).Error; err != nil {
		return fmt.Errorf("failed to insert sale events: %w", err)
	}
	return nil
}
