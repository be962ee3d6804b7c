// Package llm holds the fixed prompts and the completer implementations
// behind the extraction, translation, and question-answering calls.
package llm

import "fmt"

// ExtractionPrompt returns the schema-describing prompt sent with every
// document image. The identifier derivation rules here are what make
// deduplication keys deterministic — keep them in sync with the variant
// field layouts in internal/domain.
func ExtractionPrompt() string {
	return `You are a travel secretary. The image is one of: a store receipt, a
transit ticket, a hotel booking confirmation, or an attraction pass.
Organize its details into JSON for a database. Populate exactly ONE of the
following shapes, matching the document type, and leave the others out.

Receipt:
{"Receipt": [{"ReceiptID": "", "PurchaseStore": "", "PurchaseDate": "", "PurchaseAddress": "", "TotalAmount": ""}],
 "Items": [{"ItemID": "", "ReceiptID": "", "ItemName": "", "ItemPrice": ""}]}

Ticket:
{"Ticket": [{"TicketID": "", "CarrierName": "", "RouteNumber": "", "TicketType": "", "DepartureStation": "", "ArrivalStation": "", "DepartureTime": "", "ArrivalTime": "", "PassengerName": "", "TotalAmount": ""}],
 "Segments": [{"SegmentID": "", "TicketID": "", "DepartureStation": "", "ArrivalStation": "", "DepartureTime": "", "ArrivalTime": "", "SeatNumber": ""}]}

Hotel:
{"Hotel": [{"BookingID": "", "HotelName": "", "CheckInDate": "", "CheckOutDate": "", "HotelAddress": "", "GuestName": "", "TotalAmount": ""}],
 "RoomDetails": [{"RoomID": "", "BookingID": "", "RoomType": "", "RoomRate": "", "Nights": ""}]}

Attraction:
{"Attraction": [{"PassID": "", "AttractionName": "", "VisitDate": "", "AttractionAddress": "", "TicketType": "", "TotalAmount": ""}],
 "Admissions": [{"AdmissionID": "", "PassID": "", "HolderType": "", "Price": ""}]}

Identifier rules:
- ReceiptID: the purchase date and time as digits only, yyyymmddHHMM, no separators.
- TicketID: the departure date and time as digits only, followed by "-TKT".
- BookingID: the check-in date as digits only, followed by "-HTL".
- PassID: the visit date as digits only, followed by "-ATR".
- Child identifiers (ItemID, SegmentID, RoomID, AdmissionID): the parent
  identifier followed by "-" and the item's sequence number, starting at 1.

If any information is unclear, fill in with 'N/A'. Respond with the JSON
only.`
}

// TranslationPrompt asks the model to translate the non-Chinese parts of an
// extraction result, keeping the JSON structure and identifiers intact.
func TranslationPrompt(rawJSON string) string {
	return rawJSON + "\n --- " + `This is a JSON representation of a travel document.
Please translate the non-Chinese characters into Chinese for me, using the
format: non-Chinese(Chinese). All Chinese is zh_tw. Keep every key and every
identifier value (fields ending in "ID") exactly as they are.
Please respond with the translated JSON only.`
}

// QuestionPrompt wraps a user question with the user's full ledger snapshot.
func QuestionPrompt(snapshot, question string) string {
	return fmt.Sprintf(
		"Here is my entire trip document list during my travel: %s; "+
			"please answer my question based on this information. %s. Reply in zh_tw.",
		snapshot, question)
}
