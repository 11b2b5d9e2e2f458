package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout(t *testing.T) {
	l := NewLayout("/ws", "crypto_ecdsa")

	assert.Equal(t, filepath.Join("/ws", "input"), l.Input)
	assert.Equal(t, filepath.Join("/ws", "input", "crypto_ecdsa"), l.Module)
	assert.Equal(t, filepath.Join("/ws", "input", "common_crypto"), l.Common)
	assert.Equal(t, filepath.Join("/ws", "input", "templates"), l.Templates)
	assert.Equal(t, filepath.Join("/ws", "output"), l.Output)
	assert.Equal(t, []string{l.Input, l.Module, l.Common, l.Templates, l.Output}, l.Dirs())
}

func TestLayoutCreateIsIdempotent(t *testing.T) {
	l := NewLayout(filepath.Join(t.TempDir(), "fmpp", "build"), "crypto_ecdsa")

	require.NoError(t, l.Create())
	require.NoError(t, l.Create())
	for _, d := range l.Dirs() {
		assert.DirExists(t, d)
	}
}
