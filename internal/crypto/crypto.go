package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// AES-256 key length
	keyLength = 32
	// AES block size
	aesBlockSize = 16
	// IV length (same as AES block size for CBC)
	ivLength = 16
	// IV hex length (16 bytes * 2 characters per byte)
	ivHexLength = 32
	// envelopeSeparator joins the hex IV and the hex ciphertext.
	envelopeSeparator = ":"
)

// ErrMalformedEnvelope is returned when a value passed to Decrypt does not have
// the expected "ivHex:cipherHex" shape.
var ErrMalformedEnvelope = errors.New("malformed ciphertext envelope")

// DeriveKey derives the AES-256 key from the configured secret by right-padding
// it with '0' characters to 32 bytes and truncating to exactly 32 bytes.
// Data already at rest was written with this exact rule, so it must not change.
func DeriveKey(secret string) []byte {
	key := []byte(secret)
	for len(key) < keyLength {
		key = append(key, '0')
	}
	return key[:keyLength]
}

// pkcs7Pad pads data to a multiple of blockSize using PKCS#7 padding.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - (len(data) % blockSize)
	padText := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(data, padText...)
}

// pkcs7Unpad removes PKCS#7 padding from data.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded data length")
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, errors.New("invalid pkcs7 padding: padding size is zero or exceeds block size")
	}

	// Check that all padding bytes are consistent
	for i := 0; i < padding; i++ {
		if data[len(data)-padding+i] != byte(padding) {
			return nil, errors.New("invalid pkcs7 padding: padding bytes are inconsistent")
		}
	}

	return data[:len(data)-padding], nil
}

// Encrypt encrypts plaintext using AES-256-CBC with a fresh random IV per call
// and returns the envelope "hex(iv):hex(ciphertext)".
func Encrypt(plainText string, key []byte) (string, error) {
	if len(key) != keyLength {
		return "", fmt.Errorf("invalid key length: must be %d bytes for AES-256", keyLength)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	paddedPlaintext := pkcs7Pad([]byte(plainText), aesBlockSize)

	cipherText := make([]byte, len(paddedPlaintext))
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(cipherText, paddedPlaintext)

	return hex.EncodeToString(iv) + envelopeSeparator + hex.EncodeToString(cipherText), nil
}

// Decrypt decrypts an "ivHex:cipherHex" envelope using AES-256-CBC.
func Decrypt(envelope string, key []byte) (string, error) {
	if len(key) != keyLength {
		return "", fmt.Errorf("invalid key length: must be %d bytes for AES-256", keyLength)
	}

	ivHex, cipherTextHex, found := strings.Cut(envelope, envelopeSeparator)
	if !found || len(ivHex) != ivHexLength {
		return "", ErrMalformedEnvelope
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode IV from hex: %v", ErrMalformedEnvelope, err)
	}

	cipherText, err := hex.DecodeString(cipherTextHex)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode ciphertext from hex: %v", ErrMalformedEnvelope, err)
	}
	if len(cipherText) == 0 || len(cipherText)%aesBlockSize != 0 {
		// Truncated ciphertext, or a plaintext value misidentified as an envelope.
		return "", fmt.Errorf("%w: ciphertext is not a multiple of the block size", ErrMalformedEnvelope)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create AES cipher: %w", err)
	}

	decryptedPaddedText := make([]byte, len(cipherText))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(decryptedPaddedText, cipherText)

	plainTextBytes, err := pkcs7Unpad(decryptedPaddedText, aesBlockSize)
	if err != nil {
		return "", fmt.Errorf("failed to unpad plaintext: %w", err)
	}

	return string(plainTextBytes), nil
}

// IsEnvelope reports whether s has the structural shape of an encrypted
// envelope: 32 hex characters, the separator, then a nonempty hex ciphertext
// spanning whole AES blocks.
//
// This is a content-sniffing heuristic, not a type tag: a plaintext value that
// happens to match the shape will be misidentified. Tolerant read paths handle
// that by falling back to the raw value when decryption fails.
func IsEnvelope(s string) bool {
	ivHex, cipherTextHex, found := strings.Cut(s, envelopeSeparator)
	if !found || len(ivHex) != ivHexLength {
		return false
	}
	if len(cipherTextHex) == 0 || len(cipherTextHex)%(aesBlockSize*2) != 0 {
		return false
	}
	return isHex(ivHex) && isHex(cipherTextHex)
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
