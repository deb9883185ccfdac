package secrets

import (
	"bytes"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreUnknownBackend(t *testing.T) {
	_, err := NewStore(Options{Backend: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestNewStoreKeychainAvailability(t *testing.T) {
	store, err := NewStore(Options{Backend: BackendKeychain})
	if nativeKeychain() == nil {
		assert.ErrorIs(t, err, ErrBackendUnavailable)
		return
	}
	require.NoError(t, err)
	assert.IsType(t, &KeychainStore{}, store)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, DefaultNamespace, opts.Namespace)
	assert.True(t, opts.Sync)
	assert.Equal(t, BackendAuto, opts.Backend)
}

func TestOptionsNamespaceFallback(t *testing.T) {
	assert.Equal(t, "kc-cli", Options{}.namespace())
	assert.Equal(t, "custom", Options{Namespace: "custom"}.namespace())
}

func TestFileDir(t *testing.T) {
	assert.Equal(t, "/tmp/x", fileDir(Options{FileDir: "/tmp/x"}))
	assert.Equal(t, filepath.Join(xdg.DataHome, "kc", "keyring"), fileDir(Options{}))
}

func TestQuietMode(t *testing.T) {
	t.Setenv("KC_QUIET", "")
	assert.False(t, quietMode(Options{}))
	assert.True(t, quietMode(Options{Quiet: true}))

	t.Setenv("KC_QUIET", "1")
	assert.True(t, quietMode(Options{}))

	t.Setenv("KC_QUIET", "true")
	assert.True(t, quietMode(Options{}))
}

func TestIsHeadless(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	assert.Equal(t, runtime.GOOS == "linux", IsHeadless())

	t.Setenv("DISPLAY", ":0")
	assert.False(t, IsHeadless())
}

func TestIsWSLOffLinux(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Skip("depends on /proc/version of the host")
	}
	assert.False(t, IsWSL())
}

func TestWarnOnce(t *testing.T) {
	// Reload after the environment is restored
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("KC_QUIET", "")
	xdg.Reload()

	var quiet bytes.Buffer
	warnOnce(Options{Quiet: true, Stderr: &quiet}, "falling back")
	assert.Empty(t, quiet.String())
	assert.False(t, warningShown())

	var first, second bytes.Buffer
	warnOnce(Options{Stderr: &first}, "falling back")
	assert.Equal(t, "falling back\n", first.String())
	assert.True(t, warningShown())

	warnOnce(Options{Stderr: &second}, "falling back")
	assert.Empty(t, second.String())
}
