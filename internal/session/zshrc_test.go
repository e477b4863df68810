package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHookConfig(t *testing.T) {
	dir, cleanup, err := writeHookConfig()
	require.NoError(t, err)
	defer cleanup()

	data, err := os.ReadFile(filepath.Join(dir, ".zshrc"))
	require.NoError(t, err)
	content := string(data)

	// Sources the user's real config before installing hooks.
	assert.Contains(t, content, `source "$HOME/.zshrc"`)

	// Emits the OSC 133 command boundary markers.
	assert.Contains(t, content, `133;C;%s`)
	assert.Contains(t, content, `133;D;%s`)
	assert.Contains(t, content, `"$?"`)

	// Chains via add-zsh-hook, wrapping existing hooks as fallback.
	assert.Contains(t, content, "add-zsh-hook preexec nacre_preexec")
	assert.Contains(t, content, "add-zsh-hook precmd nacre_precmd")
	assert.Contains(t, content, "_nacre_user_preexec")

	idx := strings.Index(content, "add-zsh-hook")
	assert.Greater(t, idx, strings.Index(content, "nacre_precmd()"))
}

func TestWriteHookConfigCleanup(t *testing.T) {
	dir, cleanup, err := writeHookConfig()
	require.NoError(t, err)

	cleanup()

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
