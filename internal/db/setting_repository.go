package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"shopadmin-backend-go/internal/models"
)

const settingsCollection = "settings"

// firestoreSettingRepository implements SettingRepository using Firestore.
// The document ID is the setting key, which makes key uniqueness a property of
// the store rather than something the service has to re-check.
type firestoreSettingRepository struct {
	client *firestore.Client
}

// NewFirestoreSettingRepository creates a Firestore-backed SettingRepository.
func NewFirestoreSettingRepository(client *firestore.Client) SettingRepository {
	return &firestoreSettingRepository{client: client}
}

func (r *firestoreSettingRepository) GetByKey(ctx context.Context, key string) (*models.Setting, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty for GetByKey operation")
	}

	docSnap, err := r.client.Collection(settingsCollection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("setting %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	var setting models.Setting
	if err := docSnap.DataTo(&setting); err != nil {
		return nil, fmt.Errorf("failed to decode setting %q: %w", key, err)
	}
	setting.Key = docSnap.Ref.ID

	return &setting, nil
}

func (r *firestoreSettingRepository) GetByCategory(ctx context.Context, category string) ([]*models.Setting, error) {
	query := r.client.Collection(settingsCollection).Query
	if category != "" {
		query = query.Where("category", "==", category)
	}
	query = query.OrderBy("label", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var settings []*models.Setting
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate settings for category %q: %w", category, err)
		}

		var setting models.Setting
		if err := doc.DataTo(&setting); err != nil {
			return nil, fmt.Errorf("failed to decode setting %q: %w", doc.Ref.ID, err)
		}
		setting.Key = doc.Ref.ID
		settings = append(settings, &setting)
	}

	return settings, nil
}

func (r *firestoreSettingRepository) Create(ctx context.Context, setting *models.Setting) error {
	if setting.Key == "" {
		return errors.New("setting key cannot be empty for Create operation")
	}

	// Create (as opposed to Set) fails when the document already exists,
	// which is how key uniqueness is enforced.
	_, err := r.client.Collection(settingsCollection).Doc(setting.Key).Create(ctx, setting)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("setting %q: %w", setting.Key, ErrConflict)
		}
		return fmt.Errorf("failed to create setting %q: %w", setting.Key, err)
	}
	return nil
}

func (r *firestoreSettingRepository) Update(ctx context.Context, setting *models.Setting, expectedUpdatedAt time.Time) error {
	if setting.Key == "" {
		return errors.New("setting key cannot be empty for Update operation")
	}

	docRef := r.client.Collection(settingsCollection).Doc(setting.Key)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		var stored models.Setting
		if err := docSnap.DataTo(&stored); err != nil {
			return fmt.Errorf("failed to decode setting %q: %w", setting.Key, err)
		}
		if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
			return ErrConcurrentUpdate
		}

		return tx.Set(docRef, setting)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConcurrentUpdate) {
			return fmt.Errorf("setting %q: %w", setting.Key, err)
		}
		return fmt.Errorf("failed to update setting %q: %w", setting.Key, err)
	}
	return nil
}

func (r *firestoreSettingRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("key cannot be empty for Delete operation")
	}

	// Firestore deletes are idempotent; absence is not an error here.
	_, err := r.client.Collection(settingsCollection).Doc(key).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}
	return nil
}
