// Package rollup turns a raw sale-event log into one summarized row per
// item: rolling-window sale counts, the latest descriptive attributes, and
// grand totals broadcast across the result set. The package is pure — it
// never touches storage or the wall clock — so every run over the same
// inputs is reproducible.
package rollup

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Thresholds are per-metric minimum sale counts applied by the post-filter.
// Zero means no constraint; negative values are treated as zero rather
// than rejected.
type Thresholds struct {
	Min7      int64
	Min14     int64
	Min21     int64
	Min30     int64
	MinCustom int64
	MinTotal  int64
}

func (t Thresholds) normalized() Thresholds {
	clamp := func(v int64) int64 {
		if v < 0 {
			return 0
		}
		return v
	}
	return Thresholds{
		Min7:      clamp(t.Min7),
		Min14:     clamp(t.Min14),
		Min21:     clamp(t.Min21),
		Min30:     clamp(t.Min30),
		MinCustom: clamp(t.MinCustom),
		MinTotal:  clamp(t.MinTotal),
	}
}

// Query is one aggregation request. Now anchors the fixed 7/14/21/30-day
// windows and must be supplied by the caller; the engine never reads the
// wall clock itself. Start/End bound the custom range inclusively, and
// Start after End yields an empty custom window, not an error.
//
// Search and SKU are case-insensitive substring matches; empty means
// no-op. PriceMin/PriceMax bound the current price and follow the same
// rule as thresholds: a zero or negative bound is ineffective, never an
// error.
type Query struct {
	Now        time.Time
	StartDate  time.Time
	EndDate    time.Time
	Mode       CountMode
	Thresholds Thresholds
	Search     string
	SKU        string
	PriceMin   decimal.Decimal
	PriceMax   decimal.Decimal
}

// ItemRollup is one output row: current attributes, per-item metrics, and
// the grand totals repeated identically on every row of the result set.
type ItemRollup struct {
	ItemID       string          `json:"item_id"`
	Title        string          `json:"title"`
	SKU          string          `json:"sku"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	ImageURL     string          `json:"image_url"`
	ProductURL   string          `json:"product_url"`
	Metrics
	GrandSold7d     int64 `json:"grand_sold_7d"`
	GrandSold14d    int64 `json:"grand_sold_14d"`
	GrandSold21d    int64 `json:"grand_sold_21d"`
	GrandSold30d    int64 `json:"grand_sold_30d"`
	GrandSoldCustom int64 `json:"grand_sold_custom"`
	GrandSoldTotal  int64 `json:"grand_sold_total"`
}

// Result carries the filtered rows plus both row counts, so a caller can
// distinguish an empty store from an over-restrictive filter.
type Result struct {
	Rows            []ItemRollup
	PreFilterCount  int
	PostFilterCount int
	GrandTotals     Metrics
}

// Run executes the full pipeline: aggregate, resolve latest attributes,
// join, annotate grand totals, then post-filter. Grand totals are computed
// over the pre-filter set, so threshold filtering never shifts them.
func Run(events []Event, q Query) (Result, error) {
	metrics := aggregate(events, q.Now, q.StartDate, q.EndDate, q.Mode)
	attrs := LatestAttributes(events)

	rows, err := join(metrics, attrs)
	if err != nil {
		return Result{}, err
	}
	sortRows(rows)

	totals := annotateGrandTotals(rows)
	filtered := applyFilter(rows, q)

	return Result{
		Rows:            filtered,
		PreFilterCount:  len(rows),
		PostFilterCount: len(filtered),
		GrandTotals:     totals,
	}, nil
}

// join inner-joins metrics with attribute snapshots on item id. Both sides
// derive from the same event set, so a metrics row without a counterpart
// is a logic bug: it fails loudly instead of dropping data.
func join(metrics map[string]*Metrics, attrs map[string]Attributes) ([]ItemRollup, error) {
	rows := make([]ItemRollup, 0, len(metrics))
	for itemID, m := range metrics {
		a, ok := attrs[itemID]
		if !ok {
			return nil, fmt.Errorf("rollup consistency fault: item %q has metrics but no attribute snapshot", itemID)
		}
		rows = append(rows, ItemRollup{
			ItemID:       itemID,
			Title:        a.Title,
			SKU:          a.SKU,
			CurrentPrice: a.Price,
			ImageURL:     a.ImageURL,
			ProductURL:   a.ProductURL,
			Metrics:      *m,
		})
	}
	return rows, nil
}

// sortRows orders by custom-range count desc, then all-time count desc,
// then item id asc, so repeated runs produce identical output.
func sortRows(rows []ItemRollup) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SoldCustom != rows[j].SoldCustom {
			return rows[i].SoldCustom > rows[j].SoldCustom
		}
		if rows[i].SoldTotal != rows[j].SoldTotal {
			return rows[i].SoldTotal > rows[j].SoldTotal
		}
		return rows[i].ItemID < rows[j].ItemID
	})
}

// annotateGrandTotals sums every metric column across the full row set and
// writes the sums back onto each row as repeated constant columns.
func annotateGrandTotals(rows []ItemRollup) Metrics {
	var totals Metrics
	for i := range rows {
		totals.Sold7d += rows[i].Sold7d
		totals.Sold14d += rows[i].Sold14d
		totals.Sold21d += rows[i].Sold21d
		totals.Sold30d += rows[i].Sold30d
		totals.SoldCustom += rows[i].SoldCustom
		totals.SoldTotal += rows[i].SoldTotal
	}
	for i := range rows {
		rows[i].GrandSold7d = totals.Sold7d
		rows[i].GrandSold14d = totals.Sold14d
		rows[i].GrandSold21d = totals.Sold21d
		rows[i].GrandSold30d = totals.Sold30d
		rows[i].GrandSoldCustom = totals.SoldCustom
		rows[i].GrandSoldTotal = totals.SoldTotal
	}
	return totals
}

// applyFilter keeps rows whose metrics all meet their minimum thresholds,
// whose title and SKU contain the respective non-empty patterns
// case-insensitively, and whose current price falls inside the effective
// price bounds. Grand-total columns are untouched: they were fixed before
// filtering.
func applyFilter(rows []ItemRollup, q Query) []ItemRollup {
	t := q.Thresholds.normalized()
	titleNeedle := strings.ToLower(strings.TrimSpace(q.Search))
	skuNeedle := strings.ToLower(strings.TrimSpace(q.SKU))

	out := make([]ItemRollup, 0, len(rows))
	for _, r := range rows {
		if r.Sold7d < t.Min7 || r.Sold14d < t.Min14 || r.Sold21d < t.Min21 ||
			r.Sold30d < t.Min30 || r.SoldCustom < t.MinCustom || r.SoldTotal < t.MinTotal {
			continue
		}
		if titleNeedle != "" && !strings.Contains(strings.ToLower(r.Title), titleNeedle) {
			continue
		}
		if skuNeedle != "" && !strings.Contains(strings.ToLower(r.SKU), skuNeedle) {
			continue
		}
		if q.PriceMin.IsPositive() && r.CurrentPrice.LessThan(q.PriceMin) {
			continue
		}
		if q.PriceMax.IsPositive() && r.CurrentPrice.GreaterThan(q.PriceMax) {
			continue
		}
		out = append(out, r)
	}
	return out
}
