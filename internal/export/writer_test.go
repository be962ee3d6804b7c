package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tripdesk/internal/export"
)

func TestWriteXLSX_SheetPerVariant(t *testing.T) {
	snapshot := `{
		"receipts": [{"ReceiptID": "202401011200", "PurchaseStore": "全聯", "TotalAmount": "320",
			"Items": [{"ItemID": "202401011200-1", "ItemName": "牛奶", "ItemPrice": "320"}]}],
		"tickets": [],
		"hotels": [{"BookingID": "202401030000-HTL", "HotelName": "福華大飯店", "RoomDetails": []}],
		"attractions": []
	}`

	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, snapshot))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Receipts", "Tickets", "Hotels", "Attractions"}, f.GetSheetList())

	header, err := f.GetCellValue("Receipts", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ReceiptID", header)

	id, err := f.GetCellValue("Receipts", "A2")
	require.NoError(t, err)
	assert.Equal(t, "202401011200", id)

	store, err := f.GetCellValue("Receipts", "B2")
	require.NoError(t, err)
	assert.Equal(t, "全聯", store)

	items, err := f.GetCellValue("Receipts", "F2")
	require.NoError(t, err)
	assert.Contains(t, items, "牛奶")

	hotel, err := f.GetCellValue("Hotels", "B2")
	require.NoError(t, err)
	assert.Equal(t, "福華大飯店", hotel)
}

func TestWriteXLSX_EmptySnapshotStillWritesHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, "{}"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Tickets", "A1")
	require.NoError(t, err)
	assert.Equal(t, "TicketID", header)
}

func TestWriteXLSX_InvalidSnapshot(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, export.WriteXLSX(&buf, "not json"))
}
