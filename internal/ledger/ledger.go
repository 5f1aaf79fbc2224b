// Package ledger owns the in-memory transaction set and mirrors every
// mutation to storage before returning.
package ledger

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	apperrors "dompet/internal/errors"
	"dompet/internal/logger"
	"dompet/internal/models"
	"dompet/internal/storage"
)

// Ledger is the authoritative transaction set. All public operations are
// serialized by an internal mutex; overlapping Add/Delete calls would
// otherwise race on the cache and on the last-writer-wins persistence write.
type Ledger struct {
	mu    sync.Mutex
	store storage.Store
	cache []models.Transaction
}

// New creates an empty ledger over the given store. Call Load before reading.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// CreateInput holds the caller-supplied fields for a new transaction.
type CreateInput struct {
	Title    string
	Amount   float64
	Category string
	Type     models.TransactionType
	Date     time.Time
	Note     string
}

// Load fetches the persisted records, repairs each one, and caches the
// result. When any record changed under repair the fully-repaired set is
// written back once, so legacy and corrupt blobs heal themselves on startup.
// Storage failures propagate; malformed records never do.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := l.store.LoadTransactions(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	repaired := 0
	txs := make([]models.Transaction, 0, len(raw))
	for _, r := range raw {
		tx, changed := Repair(r, now)
		if changed {
			repaired++
		}
		txs = append(txs, tx)
	}

	l.cache = txs

	if repaired > 0 {
		if err := l.store.SaveTransactions(ctx, txs); err != nil {
			return err
		}
		logger.Get().Infow("rewrote repaired ledger records", "repaired", repaired, "total", len(txs))
	}
	return nil
}

// Add validates the input, normalizes it exactly as load-time repair does,
// assigns a fresh id, appends, and persists before returning the stored
// record. When the entry currency differed from the ledger's working
// currency, the caller passes the original pair and it is attached verbatim.
func (l *Ledger) Add(ctx context.Context, in CreateInput, originalCurrency string, originalAmount *float64) (models.Transaction, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Transaction{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Title is required")
	}
	if !(in.Amount > 0) || math.IsInf(in.Amount, 0) {
		return models.Transaction{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be greater than 0")
	}
	if !in.Type.IsValid() {
		return models.Transaction{}, apperrors.ErrInvalidTransactionType
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	// Route the fields through the same repair transform used on load so
	// creation and migration normalize identically.
	raw := models.RawTransaction{
		Title:    strings.TrimSpace(in.Title),
		Amount:   in.Amount,
		Category: in.Category,
		Type:     string(in.Type),
		Date:     date.UTC().Format(time.RFC3339),
		Note:     in.Note,
	}
	if originalCurrency != "" && originalAmount != nil {
		raw.OriginalCurrency = originalCurrency
		raw.OriginalAmount = *originalAmount
	}
	tx, _ := Repair(raw, now)

	l.mu.Lock()
	defer l.mu.Unlock()

	next := append(append([]models.Transaction{}, l.cache...), tx)
	if err := l.store.SaveTransactions(ctx, next); err != nil {
		return models.Transaction{}, err
	}
	l.cache = next
	return tx, nil
}

// Delete removes the transaction with the given id. It persists only when
// the set actually shrank and reports whether a deletion occurred.
func (l *Ledger) Delete(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, tx := range l.cache {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	next := append(append([]models.Transaction{}, l.cache[:idx]...), l.cache[idx+1:]...)
	if err := l.store.SaveTransactions(ctx, next); err != nil {
		return false, err
	}
	l.cache = next
	return true, nil
}

// All returns the current snapshot in append order.
func (l *Ledger) All() []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Transaction{}, l.cache...)
}

// Recent returns the n most recently appended transactions, newest first.
func (l *Ledger) Recent(n int) []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n < 0 {
		n = 0
	}
	if n > len(l.cache) {
		n = len(l.cache)
	}

	out := make([]models.Transaction, 0, n)
	for i := len(l.cache) - 1; i >= len(l.cache)-n; i-- {
		out = append(out, l.cache[i])
	}
	return out
}

// Len returns the number of transactions currently in the ledger.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cache)
}
