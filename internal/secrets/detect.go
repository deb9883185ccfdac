package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
	"github.com/adrg/xdg"
)

// warningShown checks if the file-store warning has already been shown.
// Uses a marker file in the data directory to avoid repeating on every command.
func warningShown() bool {
	return fileExists(warningMarkerPath())
}

func markWarningShown() {
	path := warningMarkerPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	_ = os.WriteFile(path, []byte("1"), 0600)
}

func warningMarkerPath() string {
	return filepath.Join(xdg.DataHome, "kc", ".file-store-warning-shown")
}

// quietMode returns true if warnings are suppressed by the caller or via KC_QUIET.
func quietMode(opts Options) bool {
	return opts.Quiet || os.Getenv("KC_QUIET") == "1" || os.Getenv("KC_QUIET") == "true"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// warnOnce prints a message to the configured stderr, but only the first time.
func warnOnce(opts Options, msg string) {
	if quietMode(opts) || warningShown() {
		return
	}
	fmt.Fprintln(opts.stderr(), msg)
	markWarningShown()
}

// NewStore creates a Store for the backend named in opts.
// The auto backend prefers the native keychain, then the OS keyring, and
// falls back to the keyring library's encrypted file backend where neither
// is usable (WSL, headless Linux, containers).
func NewStore(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendKeychain:
		n := nativeKeychain()
		if n == nil {
			return nil, fmt.Errorf("%w: keychain requires a macOS build with cgo", ErrBackendUnavailable)
		}
		return newKeychainStore(n, opts), nil
	case BackendKeyring:
		backends := platformBackends()
		if len(backends) == 0 {
			return nil, fmt.Errorf("%w: no OS keyring found", ErrBackendUnavailable)
		}
		return NewKeyringStore(opts, backends...)
	case BackendFile:
		return NewKeyringStore(opts, keyring.FileBackend)
	case "", BackendAuto:
		return detectStore(opts)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, opts.Backend)
	}
}

func detectStore(opts Options) (Store, error) {
	log := opts.logger()

	if n := nativeKeychain(); n != nil {
		log.Debug("using native keychain", "service", opts.namespace())
		return newKeychainStore(n, opts), nil
	}

	// WSL and headless environments can't use keyring reliably
	if IsWSL() || IsHeadless() {
		warnOnce(opts, "Detected WSL/headless environment, using encrypted file storage")
		return NewKeyringStore(opts, keyring.FileBackend)
	}

	backends := platformBackends()
	if len(backends) > 0 {
		store, err := NewKeyringStore(opts, backends...)
		if err == nil {
			log.Debug("using OS keyring", "backends", backends)
			return store, nil
		}
		warnOnce(opts, fmt.Sprintf("Keyring unavailable (%v), falling back to encrypted file", err))
	}

	return NewKeyringStore(opts, keyring.FileBackend)
}

// platformBackends lists the keyring backends available here, minus the file backend.
func platformBackends() []keyring.BackendType {
	var out []keyring.BackendType
	for _, b := range keyring.AvailableBackends() {
		if b != keyring.FileBackend {
			out = append(out, b)
		}
	}
	return out
}

func fileDir(opts Options) string {
	if opts.FileDir != "" {
		return opts.FileDir
	}
	return filepath.Join(xdg.DataHome, "kc", "keyring")
}

func filePassword(opts Options) keyring.PromptFunc {
	if opts.FilePassword != "" {
		return keyring.FixedStringPrompt(opts.FilePassword)
	}
	return keyring.TerminalPrompt
}

// IsWSL returns true if running under Windows Subsystem for Linux.
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}

	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// IsHeadless returns true if running in a headless environment (no display server).
// Only applicable on Linux; macOS and Windows are assumed to have GUI.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
