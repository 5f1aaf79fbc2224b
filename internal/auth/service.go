// Package auth implements single-user PIN authentication. The PIN is set
// once, stored as a bcrypt hash, and verified on login.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/storage"
)

// Service manages the stored PIN credential.
type Service struct {
	store storage.Store
}

// NewService creates a new auth Service.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// Configured reports whether a PIN has been set up.
func (s *Service) Configured(ctx context.Context) (bool, error) {
	creds, err := s.store.LoadCredentials(ctx)
	if err != nil {
		return false, err
	}
	return creds != nil && creds.PINHash != "", nil
}

// Setup hashes and stores the PIN. It fails with ErrAlreadyConfigured when a
// PIN already exists; changing the PIN is not supported.
func (s *Service) Setup(ctx context.Context, pin string) error {
	configured, err := s.Configured(ctx)
	if err != nil {
		return err
	}
	if configured {
		return apperrors.ErrAlreadyConfigured
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.store.SaveCredentials(ctx, models.Credentials{PINHash: string(hash)})
}

// Verify checks the PIN against the stored hash. A missing credential and a
// wrong PIN both report ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, pin string) error {
	creds, err := s.store.LoadCredentials(ctx)
	if err != nil {
		return err
	}
	if creds == nil || creds.PINHash == "" {
		return apperrors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.PINHash), []byte(pin)) != nil {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}
