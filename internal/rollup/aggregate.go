package rollup

import "time"

// Metrics holds the six sale counts computed per item.
type Metrics struct {
	Sold7d     int64 `json:"sold_7d"`
	Sold14d    int64 `json:"sold_14d"`
	Sold21d    int64 `json:"sold_21d"`
	Sold30d    int64 `json:"sold_30d"`
	SoldCustom int64 `json:"sold_custom"`
	SoldTotal  int64 `json:"sold_total"`
}

// aggregate groups events by item and counts them into the four fixed
// trailing windows anchored at now, the caller's custom inclusive range,
// and the unconditional all-time total. Items without events never get a
// row, so the result has no zero-filled entries. An inverted custom range
// simply matches nothing.
func aggregate(events []Event, now, start, end time.Time, mode CountMode) map[string]*Metrics {
	anchor := dateOnly(now)
	cut7 := anchor.AddDate(0, 0, -7)
	cut14 := anchor.AddDate(0, 0, -14)
	cut21 := anchor.AddDate(0, 0, -21)
	cut30 := anchor.AddDate(0, 0, -30)
	customStart := dateOnly(start)
	customEnd := dateOnly(end)

	out := make(map[string]*Metrics)
	for _, ev := range events {
		m := out[ev.ItemID]
		if m == nil {
			m = &Metrics{}
			out[ev.ItemID] = m
		}
		w := mode.weight(ev)
		d := dateOnly(ev.SoldDate)

		if !d.Before(cut7) {
			m.Sold7d += w
		}
		if !d.Before(cut14) {
			m.Sold14d += w
		}
		if !d.Before(cut21) {
			m.Sold21d += w
		}
		if !d.Before(cut30) {
			m.Sold30d += w
		}
		if !d.Before(customStart) && !d.After(customEnd) {
			m.SoldCustom += w
		}
		m.SoldTotal += w
	}
	return out
}
