package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valet-org/valet/internal/build"
)

func TestNewResolver(t *testing.T) {
	xdgCfg := XDGConfig{
		DataHome:   "/xdg/data",
		ConfigHome: "/xdg/config",
	}

	t.Run("AppHomeEnvWins", func(t *testing.T) {
		t.Setenv("TEST_APP_HOME", "/custom/home")

		r := NewResolver("TEST_APP_HOME", "/nonexistent/legacy", xdgCfg)

		assert.Equal(t, "/custom/home", r.ConfigDir)
		assert.Equal(t, filepath.Join("/custom/home", "data"), r.DataDir)
		assert.Equal(t, filepath.Join("/custom/home", "data", "memory.log"), r.MemoryFile)
		assert.Empty(t, r.Warnings)
	})

	t.Run("LegacyPathDetected", func(t *testing.T) {
		t.Setenv("TEST_APP_HOME", "")

		legacy := t.TempDir()
		r := NewResolver("TEST_APP_HOME", legacy, xdgCfg)

		assert.Equal(t, legacy, r.ConfigDir)
		assert.Equal(t, filepath.Join(legacy, "data"), r.DataDir)
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0], "Legacy path")
	})

	t.Run("XDGFallback", func(t *testing.T) {
		t.Setenv("TEST_APP_HOME", "")

		r := NewResolver("TEST_APP_HOME", "/nonexistent/legacy", xdgCfg)

		assert.Equal(t, filepath.Join("/xdg/config", build.Slug), r.ConfigDir)
		assert.Equal(t, filepath.Join("/xdg/data", build.Slug), r.DataDir)
		assert.Equal(t, filepath.Join("/xdg/data", build.Slug, "memory.log"), r.MemoryFile)
		assert.Empty(t, r.Warnings)
	})
}
