package secrets

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Store is the interface for credential storage.
// Every implementation is scoped to a single namespace chosen at construction.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

var (
	// ErrNotFound is returned when no credential exists for the key.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidData is returned when a value cannot be represented as UTF-8 text.
	ErrInvalidData = errors.New("invalid data format")

	// ErrInvalidKey is returned for an empty key.
	ErrInvalidKey = errors.New("key must not be empty")

	// ErrBackendUnavailable is returned when the requested backend cannot be used in this build or environment.
	ErrBackendUnavailable = errors.New("credential backend unavailable")

	// errDuplicateEntry signals that an add collided with an existing entry.
	// Set always recovers from it, so it never leaves this package.
	errDuplicateEntry = errors.New("key already exists")
)

// UnexpectedError carries a store failure that has no dedicated error value.
// Code is the raw native status when the backend reports one.
type UnexpectedError struct {
	Code int32
	Err  error
}

func (e *UnexpectedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential store operation failed: %v", e.Err)
	}
	return fmt.Sprintf("keychain operation failed with status: %d", e.Code)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// DefaultNamespace is the service name credentials are filed under unless configured otherwise.
const DefaultNamespace = "kc-cli"

// Backend names accepted by Options.Backend.
const (
	BackendAuto     = "auto"
	BackendKeychain = "keychain"
	BackendKeyring  = "keyring"
	BackendFile     = "file"
)

// Options configures a Store. The zero value is usable: it selects the
// default namespace with automatic backend detection, but note Sync is false
// in the zero value; use DefaultOptions for the preferred sync behaviour.
type Options struct {
	Namespace string
	// Sync requests cloud-synchronised entries on creation. Best effort:
	// a store that lacks the entitlement silently creates local-only entries.
	Sync         bool
	Backend      string
	FileDir      string
	FilePassword string
	// Quiet suppresses environment warnings printed while choosing a backend.
	Quiet bool
	// Stderr receives those warnings; nil means os.Stderr.
	Stderr io.Writer
	Logger *slog.Logger
}

// DefaultOptions returns the options kc uses when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Namespace: DefaultNamespace,
		Sync:      true,
		Backend:   BackendAuto,
	}
}

func (o Options) namespace() string {
	if o.Namespace == "" {
		return DefaultNamespace
	}
	return o.Namespace
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}
