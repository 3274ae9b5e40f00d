package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"salesboard/internal/rollup"

	"github.com/xuri/excelize/v2"
)

// exportHeader is the flat column layout shared by both export formats.
var exportHeader = []string{
	"item_id", "title", "sku", "current_price", "image_url", "product_url",
	"sold_7d", "sold_14d", "sold_21d", "sold_30d", "sold_custom", "sold_total",
	"grand_sold_7d", "grand_sold_14d", "grand_sold_21d", "grand_sold_30d",
	"grand_sold_custom", "grand_sold_total",
}

type ExportService interface {
	WriteCSV(w io.Writer, rows []rollup.ItemRollup) error
	BuildXLSX(rows []rollup.ItemRollup) (*bytes.Buffer, error)
}

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

// WriteCSV streams the filtered result set as a header row plus one row
// per item. No transformation happens here; the rows are written as the
// engine produced them.
func (s *exportService) WriteCSV(w io.Writer, rows []rollup.ItemRollup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(exportRecord(r)); err != nil {
			return fmt.Errorf("failed to write CSV row for item %s: %w", r.ItemID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

// BuildXLSX renders the same flat table as a single-sheet workbook.
func (s *exportService) BuildXLSX(rows []rollup.ItemRollup) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(exportHeader))
	for i, col := range exportHeader {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		record := exportRecord(r)
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write XLSX row for item %s: %w", r.ItemID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize XLSX workbook: %w", err)
	}
	return buf, nil
}

func exportRecord(r rollup.ItemRollup) []string {
	return []string{
		r.ItemID,
		r.Title,
		r.SKU,
		r.CurrentPrice.StringFixed(2),
		r.ImageURL,
		r.ProductURL,
		strconv.FormatInt(r.Sold7d, 10),
		strconv.FormatInt(r.Sold14d, 10),
		strconv.FormatInt(r.Sold21d, 10),
		strconv.FormatInt(r.Sold30d, 10),
		strconv.FormatInt(r.SoldCustom, 10),
		strconv.FormatInt(r.SoldTotal, 10),
		strconv.FormatInt(r.GrandSold7d, 10),
		strconv.FormatInt(r.GrandSold14d, 10),
		strconv.FormatInt(r.GrandSold21d, 10),
		strconv.FormatInt(r.GrandSold30d, 10),
		strconv.FormatInt(r.GrandSoldCustom, 10),
		strconv.FormatInt(r.GrandSoldTotal, 10),
	}
}
