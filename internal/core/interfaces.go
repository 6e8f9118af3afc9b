package core

import (
	"context"

	"shopadmin-backend-go/internal/models"
)

// SettingService defines the vault operations over encrypted settings:
// admin-facing CRUD with masked display, and the operational credential
// lookups used by backend code that talks to third-party APIs.
type SettingService interface {
	CreateSetting(ctx context.Context, req models.CreateSettingRequest) (*models.Setting, error)
	GetSetting(ctx context.Context, key string, unmask bool) (*models.Setting, error)
	// GetAllSettings lists settings in a category (all settings when category
	// is empty). unmask selects the decrypt-for-internal-use path and must
	// never be the default for external callers.
	GetAllSettings(ctx context.Context, category string, unmask bool) ([]*models.Setting, error)
	UpdateSetting(ctx context.Context, key string, req models.UpdateSettingRequest) (*models.Setting, error)
	DeleteSetting(ctx context.Context, key string) error

	// GetActiveAPIIntegrations lists active api_integration settings in
	// masked display form.
	GetActiveAPIIntegrations(ctx context.Context) ([]*models.Setting, error)
	// GetAPICredentialsByType returns the fully decrypted value map of the
	// first active api_integration setting whose key starts with apiType.
	// This is the only path that returns plaintext secrets; it exists for
	// backend code that immediately uses the credential, never for UIs.
	GetAPICredentialsByType(ctx context.Context, apiType string) (map[string]any, error)
	// GetAmazonCredentials is the typed convenience accessor for the Amazon
	// PA-API integration.
	GetAmazonCredentials(ctx context.Context) (*models.AmazonCredentials, error)

	// TestConnection runs the shallow usability probe for a setting. It never
	// returns an error; every failure mode is reported in the result.
	TestConnection(ctx context.Context, key string) TestConnectionResult
}

// TestConnectionResult is the outcome of a connection probe.
type TestConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// EncryptionService defines the cryptographic operations the vault depends on.
type EncryptionService interface {
	Encrypt(plainText string, key []byte) (string, error)
	Decrypt(envelope string, key []byte) (string, error)
}
