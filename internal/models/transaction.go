package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is one of the supported transaction types.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a repaired ledger record. Every transaction held by the
// ledger satisfies the invariants: non-empty ID, finite Amount >= 0, a valid
// Type, and a Date that parses as RFC 3339. The JSON field names match the
// persisted blob format, so records round-trip through storage unchanged.
//
// OriginalCurrency/OriginalAmount are present only when the user entered the
// amount in a currency other than the ledger's working currency; Amount then
// holds the converted value and the pair records what was actually typed.
type Transaction struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Amount           float64         `json:"amount"`
	Category         string          `json:"category"`
	Type             TransactionType `json:"type"`
	Date             string          `json:"date"`
	Note             string          `json:"note,omitempty"`
	OriginalCurrency string          `json:"originalCurrency,omitempty"`
	OriginalAmount   *float64        `json:"originalAmount,omitempty"`
}

// When returns the transaction instant. The ledger guarantees Date is
// normalized RFC 3339, so the zero time is only returned for records that
// never went through repair.
func (t Transaction) When() time.Time {
	ts, err := time.Parse(time.RFC3339, t.Date)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Day returns the calendar day ("YYYY-MM-DD") of the transaction in UTC.
func (t Transaction) Day() string {
	return t.When().UTC().Format("2006-01-02")
}

// RawTransaction is a persisted record before repair. Legacy and hand-edited
// blobs carry amounts as locale-formatted strings, null fields, and missing
// ids, so every field is decoded loosely and coerced during repair.
type RawTransaction struct {
	ID               any `json:"id"`
	Title            any `json:"title"`
	Amount           any `json:"amount"`
	Category         any `json:"category"`
	Type             any `json:"type"`
	Date             any `json:"date"`
	Note             any `json:"note"`
	OriginalCurrency any `json:"originalCurrency"`
	OriginalAmount   any `json:"originalAmount"`
}
