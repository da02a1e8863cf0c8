// Package credential keeps the backend API key out of config files by
// storing it in the OS keyring, with an encrypted file fallback for
// headless machines.
package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

// ErrNotFound is returned when a secret has never been stored.
var ErrNotFound = errors.New("credential not found")

const backendAPIKeyEntry = "backend-api-key"

// Vault is a handle to the secret store. Open it once at startup; every
// accessor maps a missing entry to ErrNotFound so callers can tell "not
// set yet" from a broken keyring.
type Vault struct {
	ring keyring.Keyring
}

// Open connects to the platform keyring. The file backend is last in
// the list, so it only serves when no native store is available.
func Open() (*Vault, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: "advocate",
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/advocate/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("advocate-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Vault{ring: ring}, nil
}

// NewVault wraps an already-open keyring.
func NewVault(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

// BackendAPIKey returns the stored backend API key.
func (v *Vault) BackendAPIKey() (string, error) {
	item, err := v.ring.Get(backendAPIKeyEntry)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading backend API key: %w", err)
	}
	return string(item.Data), nil
}

// SetBackendAPIKey stores or replaces the backend API key.
func (v *Vault) SetBackendAPIKey(key string) error {
	err := v.ring.Set(keyring.Item{
		Key:   backendAPIKeyEntry,
		Label: "Sales Advocates backend API key",
		Data:  []byte(key),
	})
	if err != nil {
		return fmt.Errorf("storing backend API key: %w", err)
	}
	return nil
}

// DeleteBackendAPIKey removes the stored key. Deleting an absent key is
// not an error.
func (v *Vault) DeleteBackendAPIKey() error {
	err := v.ring.Remove(backendAPIKeyEntry)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting backend API key: %w", err)
	}
	return nil
}
