package ledger

import (
	"time"

	"dompet/internal/models"
	"dompet/internal/sanitize"
	"dompet/internal/uuid"
)

// dateLayouts are the formats accepted for persisted dates, tried in order.
// Canonical records use RFC 3339 UTC; the rest cover legacy blobs written by
// older app versions.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Repair normalizes one raw persisted record into a Transaction satisfying
// the ledger invariants, reporting whether anything had to change. Malformed
// records are never rejected: a missing id is generated, an unusable amount
// becomes 0, an unknown type becomes expense, an unparseable date becomes
// now. Repairing an already-canonical record is the identity.
func Repair(raw models.RawTransaction, now time.Time) (models.Transaction, bool) {
	changed := false

	id, ok := raw.ID.(string)
	if !ok || id == "" {
		id = uuid.New()
		changed = true
	}

	// Canonical records always carry a title key, so a missing title counts
	// as a repair just like a non-string one. Empty titles are allowed.
	title, ok := raw.Title.(string)
	if !ok {
		title = ""
		changed = true
	}

	amount := sanitize.NonNegative(raw.Amount)
	if orig, isNum := raw.Amount.(float64); !isNum || orig != amount {
		changed = true
	}

	category, ok := raw.Category.(string)
	if !ok || category == "" {
		category = "Other"
		changed = true
	}

	typeStr, _ := raw.Type.(string)
	txType := models.TransactionType(typeStr)
	if !txType.IsValid() {
		txType = models.TransactionTypeExpense
		changed = true
	}

	date, dateChanged := normalizeDate(raw.Date, now)
	changed = changed || dateChanged

	note, ok := raw.Note.(string)
	if !ok {
		note = ""
		if raw.Note != nil {
			changed = true
		}
	}

	origCurrency, origAmount, pairChanged := normalizeOriginalPair(raw.OriginalCurrency, raw.OriginalAmount)
	changed = changed || pairChanged

	return models.Transaction{
		ID:               id,
		Title:            title,
		Amount:           amount,
		Category:         category,
		Type:             txType,
		Date:             date,
		Note:             note,
		OriginalCurrency: origCurrency,
		OriginalAmount:   origAmount,
	}, changed
}

// normalizeDate coerces an arbitrary persisted date value to RFC 3339 UTC.
func normalizeDate(v any, now time.Time) (string, bool) {
	canonical := func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	}

	s, ok := v.(string)
	if !ok || s == "" {
		return canonical(now), true
	}

	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			normalized := canonical(ts)
			return normalized, normalized != s
		}
	}
	return canonical(now), true
}

// normalizeOriginalPair keeps the entered-currency pair only when both halves
// are usable; a dangling currency or amount is dropped rather than guessed at.
func normalizeOriginalPair(rawCurrency, rawAmount any) (string, *float64, bool) {
	if rawCurrency == nil && rawAmount == nil {
		return "", nil, false
	}

	code, ok := rawCurrency.(string)
	if !ok || code == "" || rawAmount == nil {
		return "", nil, true
	}

	amount := sanitize.NonNegative(rawAmount)
	orig, isNum := rawAmount.(float64)
	return code, &amount, !isNum || orig != amount
}
