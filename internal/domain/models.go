package domain

// NotAvailable is the sentinel the extraction prompt asks the model to use
// for unknown field values.
const NotAvailable = "N/A"

// Fields is a flat mapping of named document fields to string values.
type Fields map[string]string

// Get returns the value for key, or empty string when absent.
func (f Fields) Get(key string) string {
	if f == nil {
		return ""
	}
	return f[key]
}

// ExtractedDocument is one classified document: a variant tag, the primary
// record, and its ordered child items. It is not mutated after construction
// except for back-filling missing child-item identifiers.
type ExtractedDocument struct {
	Variant Variant
	Record  Fields
	Items   []Fields
}

// Identifier returns the variant's deduplication key from the primary
// record. The N/A sentinel counts as absent.
func (d *ExtractedDocument) Identifier() string {
	id := d.Record.Get(d.Variant.IDField())
	if id == NotAvailable {
		return ""
	}
	return id
}

// TranslationPair holds the original-language extraction and the
// independently-produced zh_tw extraction of the same physical document.
// Both sides are guaranteed to share variant and identifier; child
// collections align by position and may differ in length.
type TranslationPair struct {
	Original   *ExtractedDocument
	Translated *ExtractedDocument
}

// LedgerRecord is one append-only ledger row, keyed by (user, variant,
// identifier) within a user's namespace.
type LedgerRecord struct {
	UserID     string
	Variant    Variant
	Identifier string
	Record     Fields
	Items      []Fields
}
