package storage

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "dompet/internal/errors"
	"dompet/internal/logger"
	"dompet/internal/models"
)

// GormStore keeps every collection as one row in the blobs table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// LoadTransactions implements Store.
func (s *GormStore) LoadTransactions(ctx context.Context) ([]models.RawTransaction, error) {
	raw, ok, err := s.loadBlob(ctx, models.BlobKeyTransactions)
	if err != nil || !ok {
		return []models.RawTransaction{}, err
	}

	var txs []models.RawTransaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		// Corrupt blob reads as no data; the next save overwrites it.
		logger.Get().Warnw("discarding undecodable transactions blob", "error", err.Error())
		return []models.RawTransaction{}, nil
	}
	return txs, nil
}

// SaveTransactions implements Store.
func (s *GormStore) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	if txs == nil {
		txs = []models.Transaction{}
	}
	return s.saveBlob(ctx, models.BlobKeyTransactions, txs)
}

// LoadSettings implements Store.
func (s *GormStore) LoadSettings(ctx context.Context) (*models.AppSettings, error) {
	raw, ok, err := s.loadBlob(ctx, models.BlobKeySettings)
	if err != nil || !ok {
		return nil, err
	}

	var settings models.AppSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		logger.Get().Warnw("discarding undecodable settings blob", "error", err.Error())
		return nil, nil
	}
	return &settings, nil
}

// SaveSettings implements Store.
func (s *GormStore) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	return s.saveBlob(ctx, models.BlobKeySettings, settings)
}

// LoadAlertState implements Store.
func (s *GormStore) LoadAlertState(ctx context.Context) (*models.AlertState, error) {
	raw, ok, err := s.loadBlob(ctx, models.BlobKeyAlertState)
	if err != nil || !ok {
		return nil, err
	}

	var state models.AlertState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, nil
	}
	return &state, nil
}

// SaveAlertState implements Store.
func (s *GormStore) SaveAlertState(ctx context.Context, state models.AlertState) error {
	return s.saveBlob(ctx, models.BlobKeyAlertState, state)
}

// LoadCredentials implements Store.
func (s *GormStore) LoadCredentials(ctx context.Context) (*models.Credentials, error) {
	raw, ok, err := s.loadBlob(ctx, models.BlobKeyCredentials)
	if err != nil || !ok {
		return nil, err
	}

	var creds models.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, nil
	}
	return &creds, nil
}

// SaveCredentials implements Store.
func (s *GormStore) SaveCredentials(ctx context.Context, creds models.Credentials) error {
	return s.saveBlob(ctx, models.BlobKeyCredentials, creds)
}

func (s *GormStore) loadBlob(ctx context.Context, key string) ([]byte, bool, error) {
	var blob models.Blob
	err := s.db.WithContext(ctx).First(&blob, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return blob.Value, true, nil
}

func (s *GormStore) saveBlob(ctx context.Context, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}

	blob := models.Blob{Key: key, Value: value}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&blob).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}
