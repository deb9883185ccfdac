package secrets

import (
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/99designs/keyring"
)

// KeyringStore implements the Store interface using a 99designs/keyring backend.
// It serves platforms without a native keychain binding; the sync hint does
// not apply to these backends.
type KeyringStore struct {
	ring keyring.Keyring
	log  *slog.Logger
}

// NewKeyringStore opens a keyring-backed credential store.
// Returns an error if none of the allowed backends can be opened.
func NewKeyringStore(opts Options, backends ...keyring.BackendType) (*KeyringStore, error) {
	cfg := keyring.Config{
		ServiceName:              opts.namespace(),
		AllowedBackends:          backends,
		KeychainTrustApplication: true, // macOS: don't prompt every access
		KeychainSynchronizable:   opts.Sync,
		FileDir:                  fileDir(opts),
		FilePasswordFunc:         filePassword(opts),
		WinCredPrefix:            opts.namespace(),
		PassPrefix:               opts.namespace(),
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	return WrapKeyring(ring, opts.logger()), nil
}

// WrapKeyring builds a store around an already opened keyring.
func WrapKeyring(ring keyring.Keyring, log *slog.Logger) *KeyringStore {
	if log == nil {
		log = slog.Default()
	}
	return &KeyringStore{ring: ring, log: log}
}

// Get retrieves a credential by key from the keyring.
func (s *KeyringStore) Get(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", &UnexpectedError{Err: fmt.Errorf("keyring get: %w", err)}
	}
	if !utf8.Valid(item.Data) {
		return "", ErrInvalidData
	}
	return string(item.Data), nil
}

// Set stores a credential in the keyring. Backends overwrite existing items in place.
func (s *KeyringStore) Set(key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if !utf8.ValidString(value) {
		return ErrInvalidData
	}

	item := keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: key,
	}
	if err := s.ring.Set(item); err != nil {
		return &UnexpectedError{Err: fmt.Errorf("keyring set: %w", err)}
	}
	return nil
}

// Delete removes a credential from the keyring.
// Backends disagree on how a missing item is reported, so existence is checked first.
func (s *KeyringStore) Delete(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	if _, err := s.ring.Get(key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return ErrNotFound
		}
		return &UnexpectedError{Err: fmt.Errorf("keyring lookup: %w", err)}
	}

	if err := s.ring.Remove(key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return ErrNotFound
		}
		return &UnexpectedError{Err: fmt.Errorf("keyring delete: %w", err)}
	}
	s.log.Debug("keyring item removed", "key", key)
	return nil
}
