package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/satchelhq/satchel/pkg/ports"
)

// EncryptionConfig holds the keys for encrypting donations at rest.
type EncryptionConfig struct {
	// ActiveKey encrypts new donations. Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are old keys tried when decryption with the active
	// key fails. This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionStore struct {
	next   ports.DonationStore
	config EncryptionConfig
}

type encryptedEnvelope struct {
	Ciphertext string `json:"__encrypted__"`
}

// NewEncryption creates a middleware that encrypts the donated payload
// with AES-GCM before it reaches the underlying store. Keys, timestamps
// and listing stay in the clear; only the payload is sealed.
func NewEncryption(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.DonationStore) ports.DonationStore {
		return &encryptionStore{next: next, config: config}
	}
}

func (s *encryptionStore) Save(ctx context.Context, d ports.Donation) error {
	ciphertext, err := encrypt([]byte(d.JSON), s.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("encrypt donation %s: %w", d.Key, err)
	}
	envelope, err := json.Marshal(encryptedEnvelope{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	})
	if err != nil {
		return err
	}
	d.JSON = string(envelope)
	return s.next.Save(ctx, d)
}

func (s *encryptionStore) Load(ctx context.Context, key string) (ports.Donation, error) {
	d, err := s.next.Load(ctx, key)
	if err != nil {
		return ports.Donation{}, err
	}

	var envelope encryptedEnvelope
	if err := json.Unmarshal([]byte(d.JSON), &envelope); err != nil || envelope.Ciphertext == "" {
		// Fail closed: with encryption configured, a stored donation
		// without an envelope is not returned in the clear.
		return ports.Donation{}, fmt.Errorf("donation %s is missing its encryption envelope", key)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil {
		return ports.Donation{}, fmt.Errorf("decode donation %s ciphertext: %w", key, err)
	}

	plain, err := decryptWithRotation(ciphertext, s.config.ActiveKey, s.config.FallbackKeys)
	if err != nil {
		return ports.Donation{}, fmt.Errorf("decrypt donation %s: %w", key, err)
	}

	d.JSON = string(plain)
	return d, nil
}

func (s *encryptionStore) Delete(ctx context.Context, key string) error {
	return s.next.Delete(ctx, key)
}

func (s *encryptionStore) List(ctx context.Context) ([]string, error) {
	return s.next.List(ctx)
}

func encrypt(plaintext, key []byte) ([]byte, error) {
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
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
