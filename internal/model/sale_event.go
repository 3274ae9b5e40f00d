package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleEvent is one recorded sale occurrence for a listed item. The log is
// append-only: rows are only ever inserted, never updated or deleted, and
// the autoincrement ID doubles as the insertion-order key used to break
// ties when selecting an item's latest attributes.
type SaleEvent struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID     string          `gorm:"type:varchar(100);not null;index" json:"item_id"`
	SoldDate   time.Time       `gorm:"type:date;not null;index" json:"sold_date"`
	Quantity   int             `gorm:"type:int;not null;default:1" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Title      string          `gorm:"type:varchar(255);not null" json:"title"`
	SKU        string          `gorm:"type:varchar(100);index" json:"sku"`
	ImageURL   string          `gorm:"type:text" json:"image_url"`
	ProductURL string          `gorm:"type:text" json:"product_url"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (SaleEvent) TableName() string {
	return "sale_events"
}

// SalePoint is one (date, quantity) step of an item's chronological sale
// history, consumed by the drill-down detail view.
type SalePoint struct {
	SoldDate time.Time `json:"sold_date"`
	Quantity int       `json:"quantity"`
}
