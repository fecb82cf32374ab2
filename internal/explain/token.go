package explain

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

// Some explainer modules call a hosted provider and need an API token.
// The token is kept encrypted on disk with a key held in the system
// keyring, falling back to an owner-only key file when no keyring
// service is available.

const (
	keyringApp   = "cookieward"
	keyringField = "main"

	tokenFileName = "provider.token"
	keyFileName   = "provider.key"

	gcmPrefix = "gcm1"
)

var ErrNoToken = errors.New("no provider token stored")

// TokenStore encrypts and persists the provider API token.
type TokenStore struct {
	tokenPath string
	keyPath   string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokenPath: filepath.Join(wardlib.ConfigDir, tokenFileName),
		keyPath:   filepath.Join(wardlib.ConfigDir, keyFileName),
	}
}

// key returns the encryption key, creating one when none exists yet.
func (t *TokenStore) key() ([]byte, error) {
	if keyHex, err := keyring.Get(keyringApp, keyringField); err == nil {
		return decodeKey(keyHex)
	}
	if data, err := os.ReadFile(t.keyPath); err == nil {
		return decodeKey(string(data))
	}
	return t.newKey()
}

func (t *TokenStore) newKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	keyHex := hex.EncodeToString(key)
	if err := keyring.Set(keyringApp, keyringField, keyHex); err == nil {
		return key, nil
	}
	// No keyring service, fall back to an owner-only key file.
	if err := os.WriteFile(t.keyPath, []byte(keyHex), 0600); err != nil {
		return nil, err
	}
	return key, nil
}

func decodeKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: expected 32, got %d", len(key))
	}
	return key, nil
}

// SetToken encrypts and stores the provider token.
func (t *TokenStore) SetToken(token string) error {
	key, err := t.key()
	if err != nil {
		return err
	}
	data, err := encryptValue(token, key)
	if err != nil {
		return err
	}
	return os.WriteFile(t.tokenPath, data, 0600)
}

// Token decrypts and returns the stored provider token.
func (t *TokenStore) Token() (string, error) {
	data, err := os.ReadFile(t.tokenPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", err
	}
	key, err := t.key()
	if err != nil {
		return "", err
	}
	plaintext, err := decryptValue(data, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// DeleteToken removes the stored token and its key.
func (t *TokenStore) DeleteToken() error {
	if err := os.Remove(t.tokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	// Best effort, the key may live in either place.
	keyring.Delete(keyringApp, keyringField)
	os.Remove(t.keyPath)
	return nil
}

func encryptValue(value string, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ciphertext := gcm.Seal(nil, nonce, []byte(value), nil)
	out := make([]byte, 0, len(gcmPrefix)+len(nonce)+len(ciphertext))
	out = append(out, gcmPrefix...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

func decryptValue(ciphertext, key []byte) ([]byte, error) {
	if len(ciphertext) < len(gcmPrefix) || string(ciphertext[:len(gcmPrefix)]) != gcmPrefix {
		return nil, fmt.Errorf("unrecognized token format")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < len(gcmPrefix)+nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[len(gcmPrefix) : len(gcmPrefix)+nonceSize]
	data := ciphertext[len(gcmPrefix)+nonceSize:]
	return gcm.Open(nil, nonce, data, nil)
}
