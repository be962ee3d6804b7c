// Package sheets implements the ledger port on a Google Sheets spreadsheet,
// one worksheet per document variant.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"tripdesk/internal/config"
	"tripdesk/internal/domain"
	"tripdesk/internal/port"
)

// Ledger is a Google Sheets-backed port.Ledger. Rows are appended with RAW
// input; existence checks scan the UserID and identifier columns, which are
// always columns A and B.
type Ledger struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetIDs      map[domain.Variant]int64
}

// New creates a sheets ledger and makes sure every variant worksheet exists
// with its header row in place.
func New(ctx context.Context, cfg *config.SheetsConfig) (port.Ledger, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets ledger: spreadsheet_id is required")
	}

	var opts []option.ClientOption
	if cfg.Credentials != "" {
		if json.Valid([]byte(cfg.Credentials)) {
			opts = append(opts, option.WithCredentialsJSON([]byte(cfg.Credentials)))
		} else {
			opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
		}
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	l := &Ledger{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetIDs:      map[domain.Variant]int64{},
	}
	if err := l.ensureWorksheets(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func sheetTitle(v domain.Variant) string {
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

func columns(v domain.Variant) []string {
	cols := append([]string{"UserID"}, v.RecordFields()...)
	return append(cols, "ItemsJSON", "CreatedAt")
}

func (l *Ledger) ensureWorksheets(ctx context.Context) error {
	spreadsheet, err := l.svc.Spreadsheets.Get(l.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("opening spreadsheet %s: %w", l.spreadsheetID, err)
	}

	existing := map[string]int64{}
	for _, sh := range spreadsheet.Sheets {
		existing[sh.Properties.Title] = sh.Properties.SheetId
	}

	for _, v := range domain.Variants {
		title := sheetTitle(v)
		sheetID, ok := existing[title]
		if !ok {
			resp, err := l.svc.Spreadsheets.BatchUpdate(l.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
				Requests: []*sheetsapi.Request{{
					AddSheet: &sheetsapi.AddSheetRequest{
						Properties: &sheetsapi.SheetProperties{Title: title},
					},
				}},
			}).Context(ctx).Do()
			if err != nil {
				return fmt.Errorf("adding worksheet %s: %w", title, err)
			}
			sheetID = resp.Replies[0].AddSheet.Properties.SheetId
		}
		l.sheetIDs[v] = sheetID

		if err := l.ensureHeaderRow(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) ensureHeaderRow(ctx context.Context, v domain.Variant) error {
	title := sheetTitle(v)
	want := columns(v)

	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, title+"!1:1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading %s header: %w", title, err)
	}

	if len(resp.Values) > 0 && len(resp.Values[0]) == len(want) {
		match := true
		for i, cell := range resp.Values[0] {
			if fmt.Sprint(cell) != want[i] {
				match = false
				break
			}
		}
		if match {
			return nil
		}
	}

	header := make([]interface{}, len(want))
	for i, col := range want {
		header[i] = col
	}
	_, err = l.svc.Spreadsheets.Values.Update(l.spreadsheetID, title+"!A1", &sheetsapi.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing %s header: %w", title, err)
	}
	return nil
}

func (l *Ledger) Exists(ctx context.Context, userID string, variant domain.Variant, identifier string) (bool, error) {
	if identifier == "" {
		return false, nil
	}

	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, sheetTitle(variant)+"!A2:B").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("reading %s rows: %w", sheetTitle(variant), err)
	}
	for _, row := range resp.Values {
		if len(row) < 2 {
			continue
		}
		if fmt.Sprint(row[0]) == userID && fmt.Sprint(row[1]) == identifier {
			return true, nil
		}
	}
	return false, nil
}

func (l *Ledger) Append(ctx context.Context, rec *domain.LedgerRecord) error {
	items := rec.Items
	if items == nil {
		items = []domain.Fields{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshaling items: %w", err)
	}

	row := []interface{}{rec.UserID}
	for _, field := range rec.Variant.RecordFields() {
		row = append(row, rec.Record.Get(field))
	}
	row = append(row, string(itemsJSON), time.Now().UTC().Format(time.RFC3339))

	_, err = l.svc.Spreadsheets.Values.Append(l.spreadsheetID, sheetTitle(rec.Variant), &sheetsapi.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending %s row: %w", sheetTitle(rec.Variant), err)
	}
	return nil
}

func (l *Ledger) Snapshot(ctx context.Context, userID string) (string, error) {
	snapshot := make(map[string][]map[string]interface{}, len(domain.Variants))
	for _, v := range domain.Variants {
		rows, err := l.userRows(ctx, v, userID)
		if err != nil {
			return "", err
		}
		snapshot[v.SnapshotKey()] = rows
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}
	return string(payload), nil
}

func (l *Ledger) userRows(ctx context.Context, v domain.Variant, userID string) ([]map[string]interface{}, error) {
	title := sheetTitle(v)
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, title+"!A1:Z").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading %s rows: %w", title, err)
	}
	if len(resp.Values) < 2 {
		return []map[string]interface{}{}, nil
	}

	header := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		header[i] = fmt.Sprint(cell)
	}

	records := []map[string]interface{}{}
	for _, row := range resp.Values[1:] {
		if len(row) == 0 || fmt.Sprint(row[0]) != userID {
			continue
		}
		record := map[string]interface{}{}
		var itemsRaw string
		for i := 1; i < len(row) && i < len(header); i++ {
			switch header[i] {
			case "ItemsJSON":
				itemsRaw = fmt.Sprint(row[i])
			case "CreatedAt", "UserID":
			default:
				record[header[i]] = fmt.Sprint(row[i])
			}
		}
		var items []map[string]interface{}
		if itemsRaw != "" && json.Unmarshal([]byte(itemsRaw), &items) == nil {
			record[v.ItemsKey()] = items
		} else if itemsRaw != "" {
			record[v.ItemsKey()] = itemsRaw
		} else {
			record[v.ItemsKey()] = []map[string]interface{}{}
		}
		records = append(records, record)
	}
	return records, nil
}

func (l *Ledger) Clear(ctx context.Context, userID string) error {
	for _, v := range domain.Variants {
		title := sheetTitle(v)
		resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, title+"!A:A").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("reading %s rows: %w", title, err)
		}

		var requests []*sheetsapi.Request
		// Delete bottom-up so earlier deletions don't shift pending indexes.
		for i := len(resp.Values) - 1; i >= 1; i-- {
			row := resp.Values[i]
			if len(row) > 0 && fmt.Sprint(row[0]) == userID {
				requests = append(requests, &sheetsapi.Request{
					DeleteDimension: &sheetsapi.DeleteDimensionRequest{
						Range: &sheetsapi.DimensionRange{
							SheetId:    l.sheetIDs[v],
							Dimension:  "ROWS",
							StartIndex: int64(i),
							EndIndex:   int64(i + 1),
						},
					},
				})
			}
		}
		if len(requests) == 0 {
			continue
		}

		_, err = l.svc.Spreadsheets.BatchUpdate(l.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("clearing %s rows: %w", title, err)
		}
	}
	return nil
}
