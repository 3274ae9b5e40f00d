package model

import (
	"time"

	"salesboard/internal/rollup"

	"github.com/shopspring/decimal"
)

// SoldItemsReport is the engine output handed to the HTTP layer: the
// filtered rollup rows plus both row counts, so clients can tell an empty
// store apart from an over-restrictive filter.
type SoldItemsReport struct {
	Rows            []rollup.ItemRollup `json:"rows"`
	PreFilterCount  int                 `json:"pre_filter_count"`
	PostFilterCount int                 `json:"post_filter_count"`
	GrandTotals     rollup.Metrics      `json:"grand_totals"`
	Now             time.Time           `json:"now"`
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
}

// ItemDetail is the current snapshot of a single item, resolved from its
// most recent sale event.
type ItemDetail struct {
	ItemID     string          `json:"item_id"`
	Title      string          `json:"title"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image_url"`
	ProductURL string          `json:"product_url"`
	TotalSold  int64           `json:"total_sold"`
	FirstSale  time.Time       `json:"first_sale"`
	LastSale   time.Time       `json:"last_sale"`
}
