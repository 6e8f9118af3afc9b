package db

import (
	"context"
	"errors"
	"time"

	"shopadmin-backend-go/internal/models"
)

// Sentinel errors raised by repositories. Services translate these into their
// own error taxonomy; repositories stay ignorant of HTTP and of encryption.
var (
	// ErrNotFound indicates the addressed setting key does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a create collided with an existing key.
	ErrConflict = errors.New("record already exists")
	// ErrConcurrentUpdate indicates the optimistic updated_at precondition
	// failed: another writer modified the record after it was read.
	ErrConcurrentUpdate = errors.New("record modified concurrently")
)

// SettingRepository defines keyed persistence for settings plus
// category-scoped listing. It has no knowledge of encryption.
type SettingRepository interface {
	// GetByKey returns the setting for key, or ErrNotFound.
	GetByKey(ctx context.Context, key string) (*models.Setting, error)
	// GetByCategory lists settings in a category ordered by label.
	// An empty category lists every setting.
	GetByCategory(ctx context.Context, category string) ([]*models.Setting, error)
	// Create persists a new setting, or ErrConflict when the key exists.
	Create(ctx context.Context, setting *models.Setting) error
	// Update replaces the stored setting. expectedUpdatedAt is the UpdatedAt
	// the caller read before modifying; the write fails with
	// ErrConcurrentUpdate when the stored value no longer matches, and with
	// ErrNotFound when the key is absent.
	Update(ctx context.Context, setting *models.Setting, expectedUpdatedAt time.Time) error
	// Delete removes the setting. Deleting an absent key is not an error at
	// this boundary; the layer above decides whether absence matters.
	Delete(ctx context.Context, key string) error
}
