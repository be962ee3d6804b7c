// Package dedupe guards the ledger against duplicate rows for the same
// document identifier.
package dedupe

import (
	"context"
	"fmt"
	"log"
	"sync"

	"tripdesk/internal/domain"
	"tripdesk/internal/port"
)

// Gate serializes check-then-store per (user, identifier) so two concurrent
// submissions of the same document cannot both pass the existence check.
// The lock is process-local; the backing store itself offers no atomic
// check-and-set, so cross-instance duplicates remain possible.
type Gate struct {
	ledger port.Ledger

	mu    sync.Mutex
	locks map[string]*entryLock
}

type entryLock struct {
	sync.Mutex
	refs int
}

// NewGate creates a Gate over a ledger.
func NewGate(ledger port.Ledger) *Gate {
	return &Gate{
		ledger: ledger,
		locks:  map[string]*entryLock{},
	}
}

// StoreOnce appends the document to the user's ledger unless its identifier
// was stored before. It reports whether a row was written; a previously
// stored identifier yields (false, nil). An empty identifier never counts as
// existing, so keyless documents always store. Existence-check failures are
// logged and treated as not-existing rather than blocking the user.
func (g *Gate) StoreOnce(ctx context.Context, userID string, doc *domain.ExtractedDocument) (bool, error) {
	id := doc.Identifier()

	unlock := g.lock(userID, id)
	defer unlock()

	if id != "" {
		exists, err := g.ledger.Exists(ctx, userID, doc.Variant, id)
		if err != nil {
			log.Printf("dedupe.Gate.StoreOnce: existence check for %s/%s failed, assuming new: %v", userID, id, err)
		} else if exists {
			return false, nil
		}
	}

	rec := &domain.LedgerRecord{
		UserID:     userID,
		Variant:    doc.Variant,
		Identifier: id,
		Record:     doc.Record,
		Items:      doc.Items,
	}
	if err := g.ledger.Append(ctx, rec); err != nil {
		return false, fmt.Errorf("appending ledger row %s/%s: %w", userID, id, err)
	}
	return true, nil
}

// lock acquires the per-(user,identifier) mutex and returns its release
// function. Entries are reference-counted so the map does not grow with
// every identifier ever seen.
func (g *Gate) lock(userID, identifier string) func() {
	key := userID + "\x00" + identifier

	g.mu.Lock()
	entry, ok := g.locks[key]
	if !ok {
		entry = &entryLock{}
		g.locks[key] = entry
	}
	entry.refs++
	g.mu.Unlock()

	entry.Lock()

	return func() {
		entry.Unlock()
		g.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(g.locks, key)
		}
		g.mu.Unlock()
	}
}
