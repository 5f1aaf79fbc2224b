// Package storage persists the ledger, settings, and alert state as opaque
// JSON blobs keyed by collection name.
package storage

import (
	"context"

	"dompet/internal/models"
)

// Store is the key-value blob persistence the core depends on. Missing or
// corrupt blobs read as "no data" (empty slice / nil), never as an error;
// only real I/O failures surface, because after a failed write the in-memory
// state may disagree with what was persisted.
type Store interface {
	// LoadTransactions returns the persisted ledger records in raw form so
	// the ledger can repair them. An absent or undecodable blob yields an
	// empty slice.
	LoadTransactions(ctx context.Context) ([]models.RawTransaction, error)

	// SaveTransactions replaces the persisted ledger with the given records.
	SaveTransactions(ctx context.Context, txs []models.Transaction) error

	// LoadSettings returns the persisted settings, or nil when none exist.
	LoadSettings(ctx context.Context) (*models.AppSettings, error)

	// SaveSettings replaces the persisted settings.
	SaveSettings(ctx context.Context, s models.AppSettings) error

	// LoadAlertState returns the budget-alert bookkeeping, or nil.
	LoadAlertState(ctx context.Context) (*models.AlertState, error)

	// SaveAlertState replaces the budget-alert bookkeeping.
	SaveAlertState(ctx context.Context, s models.AlertState) error

	// LoadCredentials returns the stored PIN hash, or nil when setup has not
	// run yet.
	LoadCredentials(ctx context.Context) (*models.Credentials, error)

	// SaveCredentials replaces the stored PIN hash.
	SaveCredentials(ctx context.Context, c models.Credentials) error
}
