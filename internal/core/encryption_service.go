package core

import (
	"fmt"

	"shopadmin-backend-go/internal/crypto"
)

// encryptionService implements the EncryptionService interface as a thin
// wrapper around the package-level functions in internal/crypto. Keeping the
// indirection lets the SettingService be tested against a fake cipher.
type encryptionService struct{}

// NewEncryptionService creates a new EncryptionService instance.
func NewEncryptionService() EncryptionService {
	return &encryptionService{}
}

func (s *encryptionService) Encrypt(plainText string, key []byte) (string, error) {
	encrypted, err := crypto.Encrypt(plainText, key)
	if err != nil {
		return "", fmt.Errorf("encryption_service: failed to encrypt: %w", err)
	}
	return encrypted, nil
}

func (s *encryptionService) Decrypt(envelope string, key []byte) (string, error) {
	decrypted, err := crypto.Decrypt(envelope, key)
	if err != nil {
		return "", fmt.Errorf("encryption_service: failed to decrypt: %w", err)
	}
	return decrypted, nil
}
