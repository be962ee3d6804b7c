package port

import (
	"context"

	"tripdesk/internal/domain"
)

// Ledger is the append-only per-user record store backing existence checks
// and snapshots. Rows are keyed by (user, variant, identifier); existing
// rows are never updated, and deletion happens only through the bulk Clear.
type Ledger interface {
	// Exists reports whether an identifier was previously stored for the
	// user and variant. An empty identifier is always false, not an error.
	Exists(ctx context.Context, userID string, variant domain.Variant, identifier string) (bool, error)

	// Append adds one ledger row. It never overwrites; callers must check
	// Exists first (the store layer provides no atomic check-and-set).
	Append(ctx context.Context, rec *domain.LedgerRecord) error

	// Snapshot returns all of the user's stored records as a single JSON
	// document, for downstream summarization and export.
	Snapshot(ctx context.Context, userID string) (string, error)

	// Clear removes every row belonging to the user, across all variants.
	Clear(ctx context.Context, userID string) error
}
