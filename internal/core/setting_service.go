package core

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopadmin-backend-go/internal/config"
	"shopadmin-backend-go/internal/crypto"
	"shopadmin-backend-go/internal/db"
	"shopadmin-backend-go/internal/models"
)

// Custom errors for the SettingService
var (
	ErrSettingNotFound        = errors.New("setting not found")
	ErrSettingExists          = errors.New("setting with this key already exists")
	ErrMissingIdentity        = errors.New("either key or api_type must be provided")
	ErrConcurrentModification = errors.New("setting was modified concurrently; re-read and retry")
	ErrEncryptionFailed       = errors.New("failed to encrypt setting value")
	ErrDecryptionFailed       = errors.New("failed to decrypt setting value")
	ErrCredentialsNotFound    = errors.New("no active credentials found for api type")
	ErrInvalidEncryptionKey   = errors.New("invalid encryption key loaded")
)

// Probe messages. Fixed strings: the admin UI matches on them.
const (
	probeMsgNotFound = "Setting not found"
	probeMsgInactive = "Integration is not active"
	probeMsgPassed   = "Connection test passed"
	probeMsgNoValues = "No credential values configured"
	probeMsgLoadFail = "Failed to load setting"
)

const amazonAPIType = "amazon_pa_api"

// settingService implements the SettingService interface.
type settingService struct {
	settingRepo       db.SettingRepository
	encryptionService EncryptionService
	logger            *zap.Logger
	encryptionKey     []byte // Derived 32-byte AES key, read-only for the process lifetime.
}

// NewSettingService creates a new SettingService instance. The AES key is
// derived once from the configured secret and held for the process lifetime.
func NewSettingService(
	sr db.SettingRepository,
	es EncryptionService,
	logger *zap.Logger,
	appConfig *config.Config,
) (SettingService, error) {
	if appConfig == nil || appConfig.EncryptionKey == "" {
		return nil, fmt.Errorf("%w: encryption key is missing from application configuration", ErrInvalidEncryptionKey)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &settingService{
		settingRepo:       sr,
		encryptionService: es,
		logger:            logger,
		encryptionKey:     crypto.DeriveKey(appConfig.EncryptionKey),
	}, nil
}

// generateSettingKey builds "{apiType}_{unixMillis}_{6-char base36}". The
// millisecond timestamp plus random suffix keeps keys unique without a
// coordinator even when two settings of the same type are created together.
func generateSettingKey(apiType string) (string, error) {
	suffix, err := randomBase36(6)
	if err != nil {
		return "", fmt.Errorf("failed to generate key suffix: %w", err)
	}
	return fmt.Sprintf("%s_%d_%s", apiType, time.Now().UnixMilli(), suffix), nil
}

func randomBase36(n int) (string, error) {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	alphabetLen := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}

// processForStorage encrypts every non-empty string field when isEncrypted is
// set. Empty strings are never encrypted: an encrypted empty string would be
// indistinguishable from "no value provided" and would break merge-on-update.
// Numbers and booleans are stored as-is.
func (s *settingService) processForStorage(value map[string]any, isEncrypted bool) (map[string]any, error) {
	if !isEncrypted || value == nil {
		return value, nil
	}

	processed := make(map[string]any, len(value))
	for name, v := range value {
		str, ok := v.(string)
		if !ok || str == "" {
			processed[name] = v
			continue
		}
		encrypted, err := s.encryptionService.Encrypt(str, s.encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrEncryptionFailed, name, err)
		}
		processed[name] = encrypted
	}
	return processed, nil
}

// processForRetrieval resolves a stored value map for display or internal use.
// Fields that look like ciphertext envelopes are decrypted; when decryption
// fails the raw stored value is kept, logged at WARN, so plaintext leftovers
// that merely resemble an envelope still come back intact. With maskSensitive
// every resolved string is additionally masked, so this path never returns a
// readable secret.
func (s *settingService) processForRetrieval(key string, value map[string]any, isEncrypted, maskSensitive bool) map[string]any {
	if !isEncrypted || value == nil {
		return value
	}

	resolved := make(map[string]any, len(value))
	for name, v := range value {
		str, ok := v.(string)
		if !ok {
			resolved[name] = v
			continue
		}
		if crypto.IsEnvelope(str) {
			plain, err := s.encryptionService.Decrypt(str, s.encryptionKey)
			if err != nil {
				s.logger.Warn("failed to decrypt stored setting field, keeping raw value",
					zap.String("key", key),
					zap.String("field", name),
					zap.Error(err))
			} else {
				str = plain
			}
		}
		resolved[name] = str
	}

	if maskSensitive {
		return crypto.MaskValues(resolved)
	}
	return resolved
}

// decryptForOperationalUse is the strict variant used by credential lookups:
// a field that looks encrypted but cannot be decrypted is an error, never a
// silent fallback, so a broken secret cannot masquerade as a working one.
func (s *settingService) decryptForOperationalUse(key string, value map[string]any, isEncrypted bool) (map[string]any, error) {
	if !isEncrypted || value == nil {
		return value, nil
	}

	decrypted := make(map[string]any, len(value))
	for name, v := range value {
		str, ok := v.(string)
		if !ok || !crypto.IsEnvelope(str) {
			decrypted[name] = v
			continue
		}
		plain, err := s.encryptionService.Decrypt(str, s.encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("%w: setting %q field %q: %v", ErrDecryptionFailed, key, name, err)
		}
		decrypted[name] = plain
	}
	return decrypted, nil
}

// displayCopy returns a copy of the setting with its value resolved for the
// requested display mode, leaving the stored representation untouched.
func (s *settingService) displayCopy(setting *models.Setting, maskSensitive bool) *models.Setting {
	out := setting.Clone()
	out.Value = s.processForRetrieval(setting.Key, setting.Value, setting.IsEncrypted, maskSensitive)
	return out
}

// CreateSetting resolves or generates the key, encrypts eligible value fields,
// persists the record and returns it in masked display form.
func (s *settingService) CreateSetting(ctx context.Context, req models.CreateSettingRequest) (*models.Setting, error) {
	key := req.Key
	if key == "" {
		if req.APIType == "" {
			return nil, ErrMissingIdentity
		}
		generated, err := generateSettingKey(req.APIType)
		if err != nil {
			return nil, err
		}
		key = generated
	}

	isEncrypted := req.IsEncrypted != nil && *req.IsEncrypted
	isActive := req.IsActive == nil || *req.IsActive

	storedValue, err := s.processForStorage(req.Value, isEncrypted)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	setting := &models.Setting{
		Key:          key,
		APIType:      req.APIType,
		InstanceName: req.InstanceName,
		Category:     req.Category,
		Label:        req.Label,
		Description:  req.Description,
		Value:        storedValue,
		IsEncrypted:  isEncrypted,
		IsActive:     isActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.settingRepo.Create(ctx, setting); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return nil, fmt.Errorf("%w: %q", ErrSettingExists, key)
		}
		return nil, fmt.Errorf("failed to create setting %q: %w", key, err)
	}

	return s.displayCopy(setting, true), nil
}

// GetSetting returns a single setting, masked unless unmask is set.
func (s *settingService) GetSetting(ctx context.Context, key string, unmask bool) (*models.Setting, error) {
	setting, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrSettingNotFound, key)
		}
		return nil, fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return s.displayCopy(setting, !unmask), nil
}

// GetAllSettings lists settings by category with per-record retrieval
// processing applied.
func (s *settingService) GetAllSettings(ctx context.Context, category string, unmask bool) ([]*models.Setting, error) {
	settings, err := s.settingRepo.GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings for category %q: %w", category, err)
	}

	out := make([]*models.Setting, 0, len(settings))
	for _, setting := range settings {
		out = append(out, s.displayCopy(setting, !unmask))
	}
	return out, nil
}

// UpdateSetting applies a partial update. For encrypted settings the value map
// is merged field by field: a non-empty incoming string overwrites (and is
// re-encrypted), while a blank incoming string keeps the stored secret — an
// admin form that round-trips masked placeholders must never wipe a real
// credential. Unencrypted settings get their value replaced wholesale.
func (s *settingService) UpdateSetting(ctx context.Context, key string, req models.UpdateSettingRequest) (*models.Setting, error) {
	existing, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrSettingNotFound, key)
		}
		return nil, fmt.Errorf("failed to get setting %q for update: %w", key, err)
	}

	updated := existing.Clone()
	if req.InstanceName != nil {
		updated.InstanceName = *req.InstanceName
	}
	if req.Label != nil {
		updated.Label = *req.Label
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	if req.Value != nil {
		if existing.IsEncrypted {
			merged, err := s.mergeEncryptedValues(updated.Value, req.Value)
			if err != nil {
				return nil, err
			}
			updated.Value = merged
		} else {
			updated.Value = req.Value
		}
	}

	updated.UpdatedAt = time.Now().UTC()

	if err := s.settingRepo.Update(ctx, updated, existing.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return nil, fmt.Errorf("%w: %q", ErrSettingNotFound, key)
		case errors.Is(err, db.ErrConcurrentUpdate):
			return nil, fmt.Errorf("%w: %q", ErrConcurrentModification, key)
		}
		return nil, fmt.Errorf("failed to update setting %q: %w", key, err)
	}

	return s.displayCopy(updated, true), nil
}

// mergeEncryptedValues starts from the existing stored (still-encrypted)
// values and overlays the incoming plain values field by field.
func (s *settingService) mergeEncryptedValues(stored, incoming map[string]any) (map[string]any, error) {
	merged := make(map[string]any, len(stored)+len(incoming))
	for name, v := range stored {
		merged[name] = v
	}
	for name, v := range incoming {
		str, ok := v.(string)
		if !ok {
			merged[name] = v
			continue
		}
		if str == "" {
			// Blank means "unchanged": keep the stored encrypted value.
			continue
		}
		encrypted, err := s.encryptionService.Encrypt(str, s.encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrEncryptionFailed, name, err)
		}
		merged[name] = encrypted
	}
	return merged, nil
}

// DeleteSetting removes the setting by key. Deletion is idempotent: deleting
// an absent key is not an error.
func (s *settingService) DeleteSetting(ctx context.Context, key string) error {
	if err := s.settingRepo.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}
	return nil
}

// GetActiveAPIIntegrations lists active api_integration settings in masked
// display form for the admin UI.
func (s *settingService) GetActiveAPIIntegrations(ctx context.Context) ([]*models.Setting, error) {
	settings, err := s.settingRepo.GetByCategory(ctx, models.SettingCategoryAPIIntegration)
	if err != nil {
		return nil, fmt.Errorf("failed to list api integrations: %w", err)
	}

	var active []*models.Setting
	for _, setting := range settings {
		if !setting.IsActive {
			continue
		}
		active = append(active, s.displayCopy(setting, true))
	}
	return active, nil
}

// GetAPICredentialsByType scans api_integration settings for the first active
// record whose key starts with apiType and returns its fully decrypted value
// map. Decryption failures propagate here: operational callers must not
// receive garbage in place of a broken secret.
func (s *settingService) GetAPICredentialsByType(ctx context.Context, apiType string) (map[string]any, error) {
	settings, err := s.settingRepo.GetByCategory(ctx, models.SettingCategoryAPIIntegration)
	if err != nil {
		return nil, fmt.Errorf("failed to list api integrations: %w", err)
	}

	for _, setting := range settings {
		if !setting.IsActive || !strings.HasPrefix(setting.Key, apiType) {
			continue
		}
		return s.decryptForOperationalUse(setting.Key, setting.Value, setting.IsEncrypted)
	}
	return nil, fmt.Errorf("%w: %q", ErrCredentialsNotFound, apiType)
}

// GetAmazonCredentials returns the typed Amazon PA-API credential subset,
// defaulting any absent field.
func (s *settingService) GetAmazonCredentials(ctx context.Context) (*models.AmazonCredentials, error) {
	values, err := s.GetAPICredentialsByType(ctx, amazonAPIType)
	if err != nil {
		return nil, err
	}
	return &models.AmazonCredentials{
		Region:     stringField(values, "region", "us-east-1"),
		AccessKey:  stringField(values, "access_key", ""),
		SecretKey:  stringField(values, "secret_key", ""),
		PartnerTag: stringField(values, "partner_tag", ""),
	}, nil
}

func stringField(values map[string]any, name, fallback string) string {
	if v, ok := values[name].(string); ok && v != "" {
		return v
	}
	return fallback
}

// TestConnection is a coarse usability probe, not a real connectivity test: it
// only verifies the setting exists, is active, and holds at least one
// non-empty credential field. Provider-specific probes are meant to replace
// the heuristic while keeping the same three-outcome shape.
func (s *settingService) TestConnection(ctx context.Context, key string) TestConnectionResult {
	setting, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return TestConnectionResult{Success: false, Message: probeMsgNotFound}
		}
		s.logger.Error("connection probe failed to load setting", zap.String("key", key), zap.Error(err))
		return TestConnectionResult{Success: false, Message: probeMsgLoadFail}
	}

	if !setting.IsActive {
		return TestConnectionResult{Success: false, Message: probeMsgInactive}
	}

	values := s.processForRetrieval(setting.Key, setting.Value, setting.IsEncrypted, false)
	for _, v := range values {
		if str, ok := v.(string); ok {
			if str != "" {
				return TestConnectionResult{Success: true, Message: probeMsgPassed}
			}
			continue
		}
		if v != nil {
			return TestConnectionResult{Success: true, Message: probeMsgPassed}
		}
	}
	return TestConnectionResult{Success: false, Message: probeMsgNoValues}
}
