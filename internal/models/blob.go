package models

import "time"

// Blob is a single opaque persisted collection. The store keeps each
// collection (transactions, settings, alert state) as one JSON value keyed
// by name, mirroring a mobile-style key-value store.
type Blob struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     []byte    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Blob keys.
const (
	BlobKeyTransactions = "transactions"
	BlobKeySettings     = "settings"
	BlobKeyAlertState   = "alert_state"
	BlobKeyCredentials  = "credentials"
)

// AlertState records when the last budget alert was delivered, enforcing the
// one-notification-per-day rule across restarts.
type AlertState struct {
	LastNotifiedAt time.Time `json:"lastNotifiedAt"`
}

// Credentials holds the bcrypt hash of the single-user PIN.
type Credentials struct {
	PINHash string `json:"pinHash"`
}
