package secrets

import (
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// Status is a raw OSStatus reported by the native secure store.
type Status int32

func (s Status) Error() string {
	return fmt.Sprintf("native status %d", int32(s))
}

// Security framework statuses the adapter reacts to.
const (
	statusDuplicateItem      Status = -25299 // errSecDuplicateItem
	statusItemNotFound       Status = -25300 // errSecItemNotFound
	statusMissingEntitlement Status = -34018 // errSecMissingEntitlement
)

// native is the minimal surface of a generic-password secure store.
// Implementations report failures as Status values. find and remove match
// entries whatever their sync attribute is.
type native interface {
	add(service, account string, data []byte, sync bool) error
	update(service, account string, data []byte) error
	find(service, account string) ([]byte, error)
	remove(service, account string) error
}

// KeychainStore implements Store on top of a native keychain.
type KeychainStore struct {
	native    native
	namespace string
	sync      bool
	log       *slog.Logger
}

func newKeychainStore(n native, opts Options) *KeychainStore {
	return &KeychainStore{
		native:    n,
		namespace: opts.namespace(),
		sync:      opts.Sync,
		log:       opts.logger(),
	}
}

// Set creates the credential, or replaces its payload if it already exists.
func (s *KeychainStore) Set(key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if !utf8.ValidString(value) {
		return ErrInvalidData
	}
	data := []byte(value)

	err := s.create(key, data)
	if errors.Is(err, errDuplicateEntry) {
		s.log.Debug("keychain entry exists, updating", "service", s.namespace, "key", key)
		return unexpected(s.native.update(s.namespace, key, data))
	}
	return err
}

// unexpected reports any update failure as UnexpectedError, including a
// not-found status from an entry removed between the add and the update.
func unexpected(err error) error {
	if err == nil {
		return nil
	}
	var status Status
	if errors.As(err, &status) {
		return &UnexpectedError{Code: int32(status)}
	}
	return &UnexpectedError{Err: err}
}

// create adds a new entry, dropping the sync attribute if the process is not
// entitled to create synchronisable items.
func (s *KeychainStore) create(key string, data []byte) error {
	err := s.native.add(s.namespace, key, data, s.sync)
	if s.sync && errors.Is(err, statusMissingEntitlement) {
		s.log.Debug("sync entitlement missing, creating local-only entry", "service", s.namespace, "key", key)
		err = s.native.add(s.namespace, key, data, false)
	}
	return s.classify(err)
}

// Get returns the credential for key.
func (s *KeychainStore) Get(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	data, err := s.native.find(s.namespace, key)
	if err != nil {
		return "", s.classify(err)
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidData
	}
	return string(data), nil
}

// Delete removes the credential for key.
func (s *KeychainStore) Delete(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return s.classify(s.native.remove(s.namespace, key))
}

// classify turns native failures into the package's error values.
func (s *KeychainStore) classify(err error) error {
	if err == nil {
		return nil
	}

	var status Status
	if !errors.As(err, &status) {
		return &UnexpectedError{Err: err}
	}

	switch status {
	case statusItemNotFound:
		return ErrNotFound
	case statusDuplicateItem:
		return errDuplicateEntry
	default:
		s.log.Debug("keychain call failed", "service", s.namespace, "status", int32(status))
		return &UnexpectedError{Code: int32(status)}
	}
}
