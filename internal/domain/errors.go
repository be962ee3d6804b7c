package domain

import "errors"

var (
	// ErrNoVariantMatched means the model returned valid JSON but none of
	// the known document shapes was populated.
	ErrNoVariantMatched = errors.New("no known document variant matched")

	// ErrMissingIdentifier means a variant was recognized but its required
	// identifier field is absent, so persistence cannot proceed.
	ErrMissingIdentifier = errors.New("document identifier missing")

	// ErrTranslationFailed means the translated side of a submission could
	// not be decoded or disagrees with the original extraction.
	ErrTranslationFailed = errors.New("translated document could not be reconciled")
)
