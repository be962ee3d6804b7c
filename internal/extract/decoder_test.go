package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripdesk/internal/extract"
)

func TestDecode_PlainObject(t *testing.T) {
	obj, err := extract.Decode(`{"Receipt": [{"ReceiptID": "202401011200"}], "Items": []}`)
	require.NoError(t, err)

	receipts, ok := obj["Receipt"].([]interface{})
	require.True(t, ok)
	require.Len(t, receipts, 1)
}

func TestDecode_FencedBlock(t *testing.T) {
	raw := "```json\n{\"Ticket\": [{\"TicketID\": \"202401020800-TKT\"}]}\n```"

	obj, err := extract.Decode(raw)
	require.NoError(t, err)
	assert.Contains(t, obj, "Ticket")
}

func TestDecode_FencedBlockWithoutClosingFence(t *testing.T) {
	raw := "```json\n{\"Hotel\": [{\"BookingID\": \"202401030000-HTL\"}]}"

	obj, err := extract.Decode(raw)
	require.NoError(t, err)
	assert.Contains(t, obj, "Hotel")
}

func TestDecode_RepairsMissingOpeningBrace(t *testing.T) {
	// Model output that lost its first line: no opening brace.
	raw := "\"ReceiptID\": \"1\", \"Items\": []}"

	obj, err := extract.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "1", obj["ReceiptID"])
}

func TestDecode_RepairsMissingClosingBrace(t *testing.T) {
	raw := "{\"Receipt\": [{\"ReceiptID\": \"202401011200\"}],\n\"Items\": []"

	obj, err := extract.Decode(raw)
	require.NoError(t, err)
	assert.Contains(t, obj, "Receipt")
}

func TestDecode_EmptyInput(t *testing.T) {
	_, err := extract.Decode("   \n  ")

	var decodeErr *extract.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "   \n  ", decodeErr.Raw)
}

func TestDecode_UnrecoverableText(t *testing.T) {
	raw := "I could not find any structured data in this image."

	_, err := extract.Decode(raw)

	var decodeErr *extract.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, raw, decodeErr.Raw)
	assert.Error(t, decodeErr.Unwrap())
}

func TestDecode_ReportsPosition(t *testing.T) {
	// Valid until the bare identifier on line 2.
	raw := "{\"Receipt\": [],\n\"Items\": oops}"

	_, err := extract.Decode(raw)

	var decodeErr *extract.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 2, decodeErr.Line)
	assert.Greater(t, decodeErr.Column, 0)
}

func TestDecode_NeverReturnsPartialObject(t *testing.T) {
	obj, err := extract.Decode("{\"Receipt\": [{\"ReceiptID\": }]}")
	assert.Error(t, err)
	assert.Nil(t, obj)
}
