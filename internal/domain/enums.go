package domain

// Variant identifies one of the mutually-exclusive document shapes the
// classifier can recognize.
type Variant string

const (
	VariantReceipt    Variant = "receipt"
	VariantTicket     Variant = "ticket"
	VariantHotel      Variant = "hotel"
	VariantAttraction Variant = "attraction"
)

// Variants lists all variants in classification priority order. A well-formed
// model response populates exactly one variant; callers stop at the first hit.
var Variants = []Variant{VariantReceipt, VariantTicket, VariantHotel, VariantAttraction}

// Key returns the top-level JSON key the model uses for this variant's
// primary record.
func (v Variant) Key() string {
	switch v {
	case VariantReceipt:
		return "Receipt"
	case VariantTicket:
		return "Ticket"
	case VariantHotel:
		return "Hotel"
	case VariantAttraction:
		return "Attraction"
	}
	return ""
}

// ItemsKey returns the sibling JSON key holding the variant's child items.
func (v Variant) ItemsKey() string {
	switch v {
	case VariantReceipt:
		return "Items"
	case VariantTicket:
		return "Segments"
	case VariantHotel:
		return "RoomDetails"
	case VariantAttraction:
		return "Admissions"
	}
	return ""
}

// IDField returns the primary-record field used as the deduplication key.
func (v Variant) IDField() string {
	switch v {
	case VariantReceipt:
		return "ReceiptID"
	case VariantTicket:
		return "TicketID"
	case VariantHotel:
		return "BookingID"
	case VariantAttraction:
		return "PassID"
	}
	return ""
}

// ItemIDField returns the child-item field carrying the item identifier.
// Missing values are back-filled as "<parent identifier>-<n>".
func (v Variant) ItemIDField() string {
	switch v {
	case VariantReceipt:
		return "ItemID"
	case VariantTicket:
		return "SegmentID"
	case VariantHotel:
		return "RoomID"
	case VariantAttraction:
		return "AdmissionID"
	}
	return ""
}

// RequiresIdentifier reports whether extraction must fail when the primary
// record lacks its identifier field. Receipts are exempt: the original ledger
// accepted keyless receipts and the gate treats an empty identifier as
// never-stored.
func (v Variant) RequiresIdentifier() bool {
	return v != VariantReceipt
}

// RecordFields returns the primary-record column layout for this variant,
// in ledger column order.
func (v Variant) RecordFields() []string {
	switch v {
	case VariantReceipt:
		return []string{"ReceiptID", "PurchaseStore", "PurchaseDate", "PurchaseAddress", "TotalAmount"}
	case VariantTicket:
		return []string{"TicketID", "CarrierName", "RouteNumber", "TicketType", "DepartureStation",
			"ArrivalStation", "DepartureTime", "ArrivalTime", "PassengerName", "TotalAmount"}
	case VariantHotel:
		return []string{"BookingID", "HotelName", "CheckInDate", "CheckOutDate", "HotelAddress",
			"GuestName", "TotalAmount"}
	case VariantAttraction:
		return []string{"PassID", "AttractionName", "VisitDate", "AttractionAddress", "TicketType", "TotalAmount"}
	}
	return nil
}

// SnapshotKey returns the key this variant's records appear under in a user
// snapshot document.
func (v Variant) SnapshotKey() string {
	switch v {
	case VariantReceipt:
		return "receipts"
	case VariantTicket:
		return "tickets"
	case VariantHotel:
		return "hotels"
	case VariantAttraction:
		return "attractions"
	}
	return ""
}
