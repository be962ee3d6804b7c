package render_test

import (
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripdesk/internal/domain"
	"tripdesk/internal/render"
)

func flexTexts(components []messaging_api.FlexComponentInterface) []string {
	var texts []string
	for _, c := range components {
		switch v := c.(type) {
		case *messaging_api.FlexText:
			texts = append(texts, v.Text)
		case *messaging_api.FlexBox:
			texts = append(texts, flexTexts(v.Contents)...)
		}
	}
	return texts
}

func TestBuildRecordFlex_Receipt(t *testing.T) {
	doc := &domain.ExtractedDocument{
		Variant: domain.VariantReceipt,
		Record: domain.Fields{
			"ReceiptID":     "202401011200",
			"PurchaseStore": "全家便利商店",
			"TotalAmount":   "320",
		},
		Items: []domain.Fields{
			{"ItemID": "202401011200-1", "ItemName": "牛奶", "ItemPrice": "320"},
		},
	}

	msg := render.BuildRecordFlex(doc)

	assert.Contains(t, msg.AltText, "RECEIPT")
	assert.Contains(t, msg.AltText, "全家便利商店")

	bubble, ok := msg.Contents.(*messaging_api.FlexBubble)
	require.True(t, ok)
	require.NotNil(t, bubble.Styles)
	assert.True(t, bubble.Styles.Footer.Separator)

	texts := flexTexts(bubble.Body.Contents)
	assert.Contains(t, texts, "RECEIPT")
	assert.Contains(t, texts, "全家便利商店")
	assert.Contains(t, texts, "牛奶")
	assert.Contains(t, texts, "$320")
	assert.Contains(t, texts, "RECEIPT ID")
	assert.Contains(t, texts, "202401011200")
}

func TestBuildRecordFlex_TicketSegments(t *testing.T) {
	doc := &domain.ExtractedDocument{
		Variant: domain.VariantTicket,
		Record: domain.Fields{
			"TicketID":    "202401020800-TKT",
			"CarrierName": "台灣高鐵",
			"RouteNumber": "823",
			"TotalAmount": "1490",
		},
		Items: []domain.Fields{
			{"SegmentID": "202401020800-TKT-1", "DepartureStation": "台北", "ArrivalStation": "左營", "SeatNumber": "12A"},
		},
	}

	msg := render.BuildRecordFlex(doc)
	bubble := msg.Contents.(*messaging_api.FlexBubble)
	texts := flexTexts(bubble.Body.Contents)

	assert.Contains(t, texts, "TICKET")
	assert.Contains(t, texts, "台北 - 左營")
	assert.Contains(t, texts, "12A")
	assert.Contains(t, texts, "TICKET ID")
	assert.Contains(t, texts, "202401020800-TKT")
}

func TestBuildRecordFlex_MissingFieldsRenderPlaceholders(t *testing.T) {
	doc := &domain.ExtractedDocument{
		Variant: domain.VariantAttraction,
		Record:  domain.Fields{"AttractionName": "故宮博物院"},
		Items:   []domain.Fields{},
	}

	msg := render.BuildRecordFlex(doc)
	bubble := msg.Contents.(*messaging_api.FlexBubble)

	// Every text node must be non-empty or the messaging API rejects the
	// bubble.
	for _, text := range flexTexts(bubble.Body.Contents) {
		assert.NotEmpty(t, text)
	}
}
