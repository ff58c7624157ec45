package memory

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timestampPrefix = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}\] `)

func fixedClock() time.Time {
	return time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)
}

func TestStore_New(t *testing.T) {
	t.Parallel()

	t.Run("EmptyPathRejected", func(t *testing.T) {
		t.Parallel()
		_, err := New(context.Background(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "memory:")
	})

	t.Run("MissingFileStartsEmpty", func(t *testing.T) {
		t.Parallel()
		store, err := New(context.Background(), filepath.Join(t.TempDir(), "memory.log"))
		require.NoError(t, err)
		assert.Equal(t, EmptyMarker, store.Dump())
		assert.Zero(t, store.Count())
	})

	t.Run("LoadsExistingEntries", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "memory.log")
		content := "[2026-08-29 09:00] first note\n[2026-08-29 09:01] second note\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		store, err := New(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 2, store.Count())
		assert.Equal(t, strings.TrimSpace(content), store.Dump())
	})

	t.Run("BlankFileStartsEmpty", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "memory.log")
		require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0600))

		store, err := New(context.Background(), path)
		require.NoError(t, err)
		assert.Zero(t, store.Count())
	})
}

func TestStore_Append(t *testing.T) {
	t.Parallel()

	t.Run("StampsAndPersists", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "memory.log")
		store, err := New(context.Background(), path, WithNowFunc(fixedClock))
		require.NoError(t, err)

		require.NoError(t, store.Append(context.Background(), "the sky is blue"))

		assert.Equal(t, "[2026-08-30 14:05] the sky is blue", store.Dump())
		assert.Regexp(t, timestampPrefix, store.Dump())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[2026-08-30 14:05] the sky is blue\n", string(data))
	})

	t.Run("CreatesDataDirLazily", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "data", "memory.log")
		store, err := New(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, store.Append(context.Background(), "lazy creation"))
		assert.FileExists(t, path)
	})

	t.Run("AppendsInOrder", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "memory.log")
		store, err := New(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, store.Append(context.Background(), "first"))
		require.NoError(t, store.Append(context.Background(), "second"))

		lines := strings.Split(store.Dump(), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasSuffix(lines[0], "first"))
		assert.True(t, strings.HasSuffix(lines[1], "second"))
		for _, line := range lines {
			assert.Regexp(t, timestampPrefix, line)
		}
	})

	t.Run("SurvivesReload", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "memory.log")
		store, err := New(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, store.Append(context.Background(), "durable note"))

		reloaded, err := New(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 1, reloaded.Count())
		assert.True(t, strings.HasSuffix(reloaded.Dump(), "durable note"))
	})
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	t.Run("RemovesFileAndResets", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "memory.log")
		store, err := New(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, store.Append(context.Background(), "to be forgotten"))

		require.NoError(t, store.Clear(context.Background()))

		assert.Equal(t, EmptyMarker, store.Dump())
		assert.Zero(t, store.Count())
		assert.NoFileExists(t, path)
	})

	t.Run("MissingFileIsNotAnError", func(t *testing.T) {
		t.Parallel()
		store, err := New(context.Background(), filepath.Join(t.TempDir(), "memory.log"))
		require.NoError(t, err)
		assert.NoError(t, store.Clear(context.Background()))
	})
}
