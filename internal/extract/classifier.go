package extract

import (
	"encoding/json"
	"fmt"
	"strconv"

	"tripdesk/internal/domain"
)

// classifierFunc inspects a decoded object for one variant. It returns
// (nil, nil) when the variant is not present, a document when it is, and an
// error when the variant is present but unusable.
type classifierFunc func(map[string]interface{}) (*domain.ExtractedDocument, error)

// classifiers are tried in fixed priority order; a well-formed model
// response populates exactly one variant, so the first non-empty primary
// record wins.
var classifiers = func() []classifierFunc {
	fns := make([]classifierFunc, 0, len(domain.Variants))
	for _, v := range domain.Variants {
		fns = append(fns, variantClassifier(v))
	}
	return fns
}()

// Classify determines which document shape a decoded object represents and
// extracts the primary record plus its child items. It returns
// domain.ErrNoVariantMatched when no known shape is populated, and
// domain.ErrMissingIdentifier when a shape that requires an identifier
// lacks one — that is an extraction failure, not absence.
func Classify(decoded map[string]interface{}) (*domain.ExtractedDocument, error) {
	for _, classify := range classifiers {
		doc, err := classify(decoded)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			return doc, nil
		}
	}
	return nil, domain.ErrNoVariantMatched
}

func variantClassifier(variant domain.Variant) classifierFunc {
	return func(decoded map[string]interface{}) (*domain.ExtractedDocument, error) {
		record := primaryRecord(decoded[variant.Key()])
		if len(record) == 0 {
			return nil, nil
		}

		doc := &domain.ExtractedDocument{
			Variant: variant,
			Record:  record,
			Items:   childItems(decoded[variant.ItemsKey()]),
		}

		if variant.RequiresIdentifier() && doc.Identifier() == "" {
			return nil, fmt.Errorf("%s record has no %s: %w",
				variant.Key(), variant.IDField(), domain.ErrMissingIdentifier)
		}

		backfillItemIDs(doc)
		return doc, nil
	}
}

// primaryRecord normalizes the variant key's value: a list yields its first
// element, a map is used directly, anything else counts as not-present.
func primaryRecord(val interface{}) domain.Fields {
	switch v := val.(type) {
	case []interface{}:
		if len(v) == 0 {
			return nil
		}
		if m, ok := v[0].(map[string]interface{}); ok {
			return asFields(m)
		}
		return nil
	case map[string]interface{}:
		return asFields(v)
	}
	return nil
}

// childItems normalizes the sibling item array; absent or non-list values
// become an empty sequence.
func childItems(val interface{}) []domain.Fields {
	list, ok := val.([]interface{})
	if !ok {
		return []domain.Fields{}
	}
	items := make([]domain.Fields, 0, len(list))
	for _, entry := range list {
		if m, ok := entry.(map[string]interface{}); ok {
			items = append(items, asFields(m))
		}
	}
	return items
}

func asFields(m map[string]interface{}) domain.Fields {
	fields := make(domain.Fields, len(m))
	for k, v := range m {
		fields[k] = stringify(v)
	}
	return fields
}

// stringify flattens a JSON value into the ledger's string representation.
func stringify(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return domain.NotAvailable
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return domain.NotAvailable
		}
		return string(raw)
	}
}

// backfillItemIDs fills missing child-item identifiers as
// "<parent identifier>-<n>", matching the numbering the extraction prompt
// asks the model for. Items keep model-provided identifiers untouched.
func backfillItemIDs(doc *domain.ExtractedDocument) {
	parentID := doc.Identifier()
	if parentID == "" {
		return
	}
	field := doc.Variant.ItemIDField()
	for i, item := range doc.Items {
		if id := item.Get(field); id == "" || id == domain.NotAvailable {
			item[field] = fmt.Sprintf("%s-%d", parentID, i+1)
		}
	}
}
