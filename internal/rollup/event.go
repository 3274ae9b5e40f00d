package rollup

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is one sale occurrence as the engine sees it, detached from storage.
type Event struct {
	// Seq is the insertion-order key (database autoincrement id). It is the
	// tie-break when two events for the same item share the latest sold date.
	Seq        uint64
	ItemID     string
	SoldDate   time.Time
	Quantity   int
	Price      decimal.Decimal
	Title      string
	SKU        string
	ImageURL   string
	ProductURL string
}

// CountMode selects how one event contributes to a sale count.
type CountMode int

const (
	// CountRows treats every event as exactly one unit sold.
	CountRows CountMode = iota
	// SumQuantity treats every event as Quantity units sold on its date.
	SumQuantity
)

func (m CountMode) weight(ev Event) int64 {
	if m == SumQuantity {
		return int64(ev.Quantity)
	}
	return 1
}

// dateOnly drops the time-of-day component so all window arithmetic happens
// at calendar-date precision, matching the DATE column in the store.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
