package secrets

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyringStore(t *testing.T) {
	s := WrapKeyring(keyring.NewArrayKeyring(nil), nil)

	// Set and Get
	require.NoError(t, s.Set("TEST_KEY", "test-value-123"))
	val, err := s.Get("TEST_KEY")
	require.NoError(t, err)
	assert.Equal(t, "test-value-123", val)

	// Get nonexistent
	_, err = s.Get("NONEXISTENT")
	assert.ErrorIs(t, err, ErrNotFound)

	// Overwrite keeps a single entry
	require.NoError(t, s.Set("TEST_KEY", "test-value-456"))
	val, err = s.Get("TEST_KEY")
	require.NoError(t, err)
	assert.Equal(t, "test-value-456", val)

	// Delete
	require.NoError(t, s.Delete("TEST_KEY"))
	_, err = s.Get("TEST_KEY")
	assert.ErrorIs(t, err, ErrNotFound)

	// Delete nonexistent
	assert.ErrorIs(t, s.Delete("TEST_KEY"), ErrNotFound)
}

func TestKeyringStoreInvalidData(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{
		{Key: "BINARY", Data: []byte{0xff, 0xfe, 0xfd}},
	})
	s := WrapKeyring(ring, nil)

	_, err := s.Get("BINARY")
	assert.ErrorIs(t, err, ErrInvalidData)

	assert.ErrorIs(t, s.Set("KEY", "\xff"), ErrInvalidData)
}

func TestKeyringStoreEmptyKey(t *testing.T) {
	s := WrapKeyring(keyring.NewArrayKeyring(nil), nil)

	assert.ErrorIs(t, s.Set("", "v"), ErrInvalidKey)
	_, err := s.Get("")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, s.Delete(""), ErrInvalidKey)
}

func TestFileBackendPersistence(t *testing.T) {
	opts := DefaultOptions()
	opts.Backend = BackendFile
	opts.FileDir = t.TempDir()
	opts.FilePassword = "correct horse battery staple"

	// Write with one instance
	s1, err := NewStore(opts)
	require.NoError(t, err)
	require.NoError(t, s1.Set("PERSIST_KEY", "persist-value"))

	// Read with another instance
	s2, err := NewStore(opts)
	require.NoError(t, err)
	val, err := s2.Get("PERSIST_KEY")
	require.NoError(t, err)
	assert.Equal(t, "persist-value", val)

	require.NoError(t, s2.Delete("PERSIST_KEY"))
	_, err = s1.Get("PERSIST_KEY")
	assert.ErrorIs(t, err, ErrNotFound)
}
