package extract

import (
	"fmt"

	"tripdesk/internal/domain"
)

// Reconcile pairs an original-language extraction with the independently
// translated extraction of the same physical document.
//
// Failures on the original side pass through unchanged: a *DecodeError, a
// domain.ErrNoVariantMatched (unrecognized document), or a
// domain.ErrMissingIdentifier describe the submission itself. Once the
// original side is usable, any defect on the translated side — failed
// decode, different variant, different identifier — is
// domain.ErrTranslationFailed: the stored and displayed records must be in
// the target language, so falling back to the original alone is not allowed.
//
// Child collections align by position. A length mismatch is accepted; both
// sequences are kept as independently produced.
func Reconcile(originalRaw, translatedRaw string) (*domain.TranslationPair, error) {
	originalObj, err := Decode(originalRaw)
	if err != nil {
		return nil, err
	}
	original, err := Classify(originalObj)
	if err != nil {
		return nil, err
	}

	translatedObj, err := Decode(translatedRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding translated side: %v", domain.ErrTranslationFailed, err)
	}
	translated, err := Classify(translatedObj)
	if err != nil {
		return nil, fmt.Errorf("%w: classifying translated side: %v", domain.ErrTranslationFailed, err)
	}

	if translated.Variant != original.Variant {
		return nil, fmt.Errorf("%w: original is %s but translation is %s",
			domain.ErrTranslationFailed, original.Variant, translated.Variant)
	}
	if id := original.Identifier(); id != "" && translated.Identifier() != id {
		return nil, fmt.Errorf("%w: identifier %q became %q in translation",
			domain.ErrTranslationFailed, id, translated.Identifier())
	}

	return &domain.TranslationPair{Original: original, Translated: translated}, nil
}
