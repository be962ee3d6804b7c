package render

import (
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"tripdesk/internal/domain"
)

const (
	headerColor = "#1DB446"
	labelColor  = "#aaaaaa"
	valueColor  = "#555555"
	titleColor  = "#333333"
)

// variantLayout describes how one document variant maps onto the flex bubble.
type variantLayout struct {
	header     string
	titleField string
	subField   string
	idLabel    string
	itemRow    func(item domain.Fields) (left, right string)
}

var layouts = map[domain.Variant]variantLayout{
	domain.VariantReceipt: {
		header:     "RECEIPT",
		titleField: "PurchaseStore",
		subField:   "PurchaseAddress",
		idLabel:    "RECEIPT ID",
		itemRow: func(item domain.Fields) (string, string) {
			return item.Get("ItemName"), "$" + item.Get("ItemPrice")
		},
	},
	domain.VariantTicket: {
		header:     "TICKET",
		titleField: "CarrierName",
		subField:   "RouteNumber",
		idLabel:    "TICKET ID",
		itemRow: func(item domain.Fields) (string, string) {
			left := item.Get("DepartureStation") + " - " + item.Get("ArrivalStation")
			return left, item.Get("SeatNumber")
		},
	},
	domain.VariantHotel: {
		header:     "HOTEL",
		titleField: "HotelName",
		subField:   "HotelAddress",
		idLabel:    "BOOKING ID",
		itemRow: func(item domain.Fields) (string, string) {
			return item.Get("RoomType"), "$" + item.Get("RoomRate")
		},
	},
	domain.VariantAttraction: {
		header:     "ATTRACTION",
		titleField: "AttractionName",
		subField:   "AttractionAddress",
		idLabel:    "PASS ID",
		itemRow: func(item domain.Fields) (string, string) {
			return item.Get("HolderType"), "$" + item.Get("Price")
		},
	},
}

// BuildRecordFlex renders an extracted document as a flex bubble: green
// header, store or venue title, item rows, a total, and an identifier footer.
func BuildRecordFlex(doc *domain.ExtractedDocument) *messaging_api.FlexMessage {
	layout := layouts[doc.Variant]

	contents := []messaging_api.FlexComponentInterface{
		&messaging_api.FlexText{
			Text:   layout.header,
			Weight: "bold",
			Color:  headerColor,
			Size:   "sm",
		},
		&messaging_api.FlexText{
			Text:   textOrPlaceholder(doc.Record.Get(layout.titleField)),
			Weight: "bold",
			Size:   "xl",
			Margin: "md",
			Color:  titleColor,
			Wrap:   true,
		},
		&messaging_api.FlexText{
			Text:  textOrPlaceholder(doc.Record.Get(layout.subField)),
			Size:  "xs",
			Color: labelColor,
			Wrap:  true,
		},
		&messaging_api.FlexSeparator{Margin: "xxl"},
	}

	itemRows := make([]messaging_api.FlexComponentInterface, 0, len(doc.Items)+2)
	for _, item := range doc.Items {
		left, right := layout.itemRow(item)
		itemRows = append(itemRows, valueRow(left, right))
	}
	itemRows = append(itemRows,
		&messaging_api.FlexSeparator{Margin: "xxl"},
		totalRow(doc.Record.Get("TotalAmount")),
	)
	contents = append(contents, &messaging_api.FlexBox{
		Layout:   "vertical",
		Margin:   "xxl",
		Spacing:  "sm",
		Contents: itemRows,
	})

	contents = append(contents,
		&messaging_api.FlexSeparator{Margin: "xxl"},
		idRow(layout.idLabel, doc.Identifier()),
	)

	bubble := &messaging_api.FlexBubble{
		Body: &messaging_api.FlexBox{
			Layout:   "vertical",
			Contents: contents,
		},
		Styles: &messaging_api.FlexBubbleStyles{
			Footer: &messaging_api.FlexBlockStyle{Separator: true},
		},
	}

	return &messaging_api.FlexMessage{
		AltText:  fmt.Sprintf("%s %s", layout.header, textOrPlaceholder(doc.Record.Get(layout.titleField))),
		Contents: bubble,
	}
}

func valueRow(left, right string) *messaging_api.FlexBox {
	return &messaging_api.FlexBox{
		Layout: "horizontal",
		Contents: []messaging_api.FlexComponentInterface{
			&messaging_api.FlexText{
				Text:  textOrPlaceholder(left),
				Size:  "sm",
				Color: valueColor,
				Wrap:  true,
			},
			&messaging_api.FlexText{
				Text:  textOrPlaceholder(right),
				Size:  "sm",
				Color: "#111111",
				Align: "end",
			},
		},
	}
}

func totalRow(total string) *messaging_api.FlexBox {
	return &messaging_api.FlexBox{
		Layout: "horizontal",
		Margin: "xxl",
		Contents: []messaging_api.FlexComponentInterface{
			&messaging_api.FlexText{
				Text:  "TOTAL",
				Size:  "sm",
				Color: valueColor,
			},
			&messaging_api.FlexText{
				Text:  "$" + textOrPlaceholder(total),
				Size:  "sm",
				Color: "#111111",
				Align: "end",
			},
		},
	}
}

func idRow(label, id string) *messaging_api.FlexBox {
	return &messaging_api.FlexBox{
		Layout: "horizontal",
		Margin: "md",
		Contents: []messaging_api.FlexComponentInterface{
			&messaging_api.FlexText{
				Text:  label,
				Size:  "xs",
				Color: labelColor,
			},
			&messaging_api.FlexText{
				Text:  textOrPlaceholder(id),
				Size:  "xs",
				Color: labelColor,
				Align: "end",
			},
		},
	}
}

// textOrPlaceholder keeps flex text nodes non-empty; the messaging API
// rejects bubbles containing empty text components.
func textOrPlaceholder(s string) string {
	if s == "" {
		return domain.NotAvailable
	}
	return s
}
