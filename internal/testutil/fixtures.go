package testutil

import (
	"context"
	"testing"
	"time"

	"dompet/internal/models"
	"dompet/internal/storage"
	"dompet/internal/uuid"
)

// MakeTransaction builds a canonical transaction for seeding stores.
func MakeTransaction(title string, amount float64, category string, txType models.TransactionType, date time.Time) models.Transaction {
	return models.Transaction{
		ID:       uuid.New(),
		Title:    title,
		Amount:   amount,
		Category: category,
		Type:     txType,
		Date:     date.UTC().Format(time.RFC3339),
	}
}

// SeedTransactions persists the given transactions directly, bypassing the
// ledger, the way a previous process run would have left them.
func SeedTransactions(t *testing.T, store storage.Store, txs ...models.Transaction) {
	t.Helper()
	if err := store.SaveTransactions(context.Background(), txs); err != nil {
		t.Fatalf("failed to seed transactions: %v", err)
	}
}

// FailingStore is a Store whose every operation fails with the given error.
// It exercises the storage-failure propagation paths.
type FailingStore struct {
	Err error
}

func (s *FailingStore) LoadTransactions(context.Context) ([]models.RawTransaction, error) {
	return nil, s.Err
}
func (s *FailingStore) SaveTransactions(context.Context, []models.Transaction) error { return s.Err }
func (s *FailingStore) LoadSettings(context.Context) (*models.AppSettings, error)    { return nil, s.Err }
func (s *FailingStore) SaveSettings(context.Context, models.AppSettings) error       { return s.Err }
func (s *FailingStore) LoadAlertState(context.Context) (*models.AlertState, error)   { return nil, s.Err }
func (s *FailingStore) SaveAlertState(context.Context, models.AlertState) error      { return s.Err }
func (s *FailingStore) LoadCredentials(context.Context) (*models.Credentials, error) { return nil, s.Err }
func (s *FailingStore) SaveCredentials(context.Context, models.Credentials) error    { return s.Err }
