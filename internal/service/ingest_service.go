package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"tripdesk/internal/dedupe"
	"tripdesk/internal/domain"
	"tripdesk/internal/extract"
	"tripdesk/internal/llm"
	"tripdesk/internal/port"
)

// IngestStatus is the terminal state of a successful pipeline run.
type IngestStatus string

const (
	// StatusStored means a new ledger row was written.
	StatusStored IngestStatus = "stored"
	// StatusDuplicate means the identifier was stored before; nothing was
	// written.
	StatusDuplicate IngestStatus = "duplicate"
)

// IngestResult is what the front end renders for one inbound image.
type IngestResult struct {
	Status IngestStatus
	Pair   *domain.TranslationPair
}

// IngestService runs the image pipeline: vision extraction, translation,
// reconciliation, deduplication, and persistence.
type IngestService interface {
	IngestImage(ctx context.Context, userID, messageID string, image []byte, contentType string) (*IngestResult, error)
}

type ingestService struct {
	vision  port.VisionCompleter
	text    port.TextCompleter
	gate    *dedupe.Gate
	archive port.ImageArchive // optional
}

// NewIngestService creates an IngestService. archive may be nil to disable
// image archival.
func NewIngestService(vision port.VisionCompleter, text port.TextCompleter, gate *dedupe.Gate, archive port.ImageArchive) IngestService {
	return &ingestService{
		vision:  vision,
		text:    text,
		gate:    gate,
		archive: archive,
	}
}

// IngestImage walks one image through the pipeline state machine. Every
// failure is terminal for this run — the user resubmits; nothing retries.
// Errors are the typed extraction/reconciliation failures from
// internal/extract and internal/domain, or a wrapped collaborator error.
func (s *ingestService) IngestImage(ctx context.Context, userID, messageID string, image []byte, contentType string) (*IngestResult, error) {
	s.archiveImage(ctx, userID, messageID, image, contentType)

	originalRaw, err := s.vision.CompleteImage(ctx, image, contentType, llm.ExtractionPrompt())
	if err != nil {
		return nil, fmt.Errorf("vision completion: %w", err)
	}
	log.Printf("ingestService.IngestImage: vision output for %s/%s: %s", userID, messageID, truncate(originalRaw, 300))

	translatedRaw, err := s.text.Complete(ctx, llm.TranslationPrompt(originalRaw))
	if err != nil {
		return nil, fmt.Errorf("translation completion: %w", err)
	}

	pair, err := extract.Reconcile(originalRaw, translatedRaw)
	if err != nil {
		logExtractionFailure(userID, messageID, err)
		return nil, err
	}

	// The translated record is what the user sees later, so it is what
	// gets persisted.
	stored, err := s.gate.StoreOnce(ctx, userID, pair.Translated)
	if err != nil {
		// The pair is still rendered; the row can be resubmitted once the
		// store recovers.
		log.Printf("ingestService.IngestImage: store failed for %s/%s: %v", userID, pair.Translated.Identifier(), err)
		return &IngestResult{Status: StatusStored, Pair: pair}, nil
	}
	if !stored {
		return &IngestResult{Status: StatusDuplicate, Pair: pair}, nil
	}
	log.Printf("ingestService.IngestImage: stored %s %s for %s", pair.Translated.Variant, pair.Translated.Identifier(), userID)
	return &IngestResult{Status: StatusStored, Pair: pair}, nil
}

func (s *ingestService) archiveImage(ctx context.Context, userID, messageID string, image []byte, contentType string) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("users/%s/images/%s", userID, messageID)
	if err := s.archive.Archive(ctx, key, bytes.NewReader(image), contentType); err != nil {
		log.Printf("ingestService.archiveImage: archiving %s failed: %v", key, err)
	}
}

// logExtractionFailure records failed model output with parser position when
// the decoder could supply one.
func logExtractionFailure(userID, messageID string, err error) {
	var decodeErr *extract.DecodeError
	if errors.As(err, &decodeErr) {
		log.Printf("ingestService.IngestImage: decode failed for %s/%s at line %d col %d, raw: %s",
			userID, messageID, decodeErr.Line, decodeErr.Column, truncate(decodeErr.Raw, 500))
		return
	}
	log.Printf("ingestService.IngestImage: extraction failed for %s/%s: %v", userID, messageID, err)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
