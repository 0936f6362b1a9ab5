package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatesCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"states", "--config", filepath.Join(t.TempDir(), "missing.toml")})
	require.NoError(t, rootCmd.Execute())

	got := out.String()
	assert.Contains(t, got, "title")
	assert.Contains(t, got, "gameplay")
	assert.Contains(t, got, filepath.Join("build", "states", "libgameplay.so"))
	assert.Contains(t, got, "GameplayInit")
	assert.Contains(t, got, "hot reload is off")
}
