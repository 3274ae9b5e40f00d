package rollup

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attributes is the "current" descriptive snapshot of an item, taken from
// its most recent sale event.
type Attributes struct {
	Title      string
	SKU        string
	Price      decimal.Decimal
	ImageURL   string
	ProductURL string

	soldDate time.Time
	seq      uint64
}

// LatestAttributes picks, per item, the event with the maximum sold date.
// When several events for one item share that date, the one with the
// largest Seq wins: the last-inserted row is the most current write. The
// rule is deliberate and stable so repeated runs over the same events
// always resolve to the same snapshot.
func LatestAttributes(events []Event) map[string]Attributes {
	out := make(map[string]Attributes, len(events))
	for _, ev := range events {
		d := dateOnly(ev.SoldDate)
		cur, ok := out[ev.ItemID]
		if ok && (d.Before(cur.soldDate) || (d.Equal(cur.soldDate) && ev.Seq < cur.seq)) {
			continue
		}
		out[ev.ItemID] = Attributes{
			Title:      ev.Title,
			SKU:        ev.SKU,
			Price:      ev.Price,
			ImageURL:   ev.ImageURL,
			ProductURL: ev.ProductURL,
			soldDate:   d,
			seq:        ev.Seq,
		}
	}
	return out
}
