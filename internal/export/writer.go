// Package export renders a user's ledger snapshot as an XLSX workbook, one
// sheet per document variant.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tripdesk/internal/domain"
)

// WriteXLSX writes snapshot (the JSON document produced by the ledger's
// Snapshot operation) to w as a workbook. Variants with no records still get
// a sheet with a header row so the layout stays stable.
func WriteXLSX(w io.Writer, snapshot string) error {
	var doc map[string][]map[string]interface{}
	if err := json.Unmarshal([]byte(snapshot), &doc); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, v := range domain.Variants {
		sheet := sheetName(v)
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("creating sheet %s: %w", sheet, err)
			}
		}

		headers := append(v.RecordFields(), "ItemsJSON")
		if err := writeRow(f, sheet, 1, toCells(headers)); err != nil {
			return err
		}

		for rowIdx, record := range doc[v.SnapshotKey()] {
			cells := make([]interface{}, 0, len(headers))
			for _, field := range v.RecordFields() {
				cells = append(cells, stringCell(record[field]))
			}
			itemsJSON, err := json.Marshal(itemsOf(record, v))
			if err != nil {
				return fmt.Errorf("marshaling %s items: %w", sheet, err)
			}
			cells = append(cells, string(itemsJSON))

			if err := writeRow(f, sheet, rowIdx+2, cells); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func sheetName(v domain.Variant) string {
	switch v {
	case domain.VariantReceipt:
		return "Receipts"
	case domain.VariantTicket:
		return "Tickets"
	case domain.VariantHotel:
		return "Hotels"
	case domain.VariantAttraction:
		return "Attractions"
	}
	return ""
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, cell := range cells {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, name, cell); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, name, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func stringCell(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func itemsOf(record map[string]interface{}, v domain.Variant) interface{} {
	if items, ok := record[v.ItemsKey()]; ok && items != nil {
		return items
	}
	return []interface{}{}
}
