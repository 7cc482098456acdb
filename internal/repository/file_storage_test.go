package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStorage_EmptyDir(t *testing.T) {
	_, err := NewFileStorage("")
	assert.Error(t, err)
}

func TestNewFileStorage_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	s, err := NewFileStorage(dir)
	require.NoError(t, err)
	require.NotNil(t, s)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStorage_GetMissingKey(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	data, ok, err := s.Get(context.Background(), "quotes")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestFileStorage_SetAndGet(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "quotes", []byte(`[{"text":"Hi","category":"A"}]`)))

	data, ok, err := s.Get(ctx, "quotes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"text":"Hi","category":"A"}]`, string(data))

	// overwrite replaces the whole snapshot
	require.NoError(t, s.Set(ctx, "quotes", []byte(`[]`)))
	data, _, _ = s.Get(ctx, "quotes")
	assert.Equal(t, "[]", string(data))

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "quotes.json", entries[0].Name())
}

func TestFileStorage_Remove(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "lastCategoryFilter", []byte(`"Life"`)))
	require.NoError(t, s.Remove(ctx, "lastCategoryFilter"))

	_, ok, err := s.Get(ctx, "lastCategoryFilter")
	require.NoError(t, err)
	assert.False(t, ok)

	// removing again is fine
	assert.NoError(t, s.Remove(ctx, "lastCategoryFilter"))
}

func TestFileStorage_InvalidKey(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/b", "with space"} {
		t.Run(key, func(t *testing.T) {
			_, _, err := s.Get(ctx, key)
			assert.Error(t, err)
			assert.Error(t, s.Set(ctx, key, []byte("1")))
			assert.Error(t, s.Remove(ctx, key))
		})
	}
}

func TestFileStorage_Set_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	err = s.Set(context.Background(), "quotes", []byte("[]"))
	assert.Error(t, err)
}

func TestFileStorage_Watch_RequiresCallback(t *testing.T) {
	s, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Watch(context.Background(), "quotes", nil))
}

func TestFileStorage_Watch_FiresOnExternalWrite(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	require.NoError(t, s.Watch(ctx, "quotes", func() { calls.Add(1) }))

	// unrelated key is ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quotes.json"), []byte("[]"), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestFileStorage_Watch_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	require.NoError(t, s.Watch(ctx, "quotes", func() { calls.Add(1) }))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Set(context.Background(), "quotes", []byte("[]")))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(2 * watchDebounce)
	assert.Less(t, calls.Load(), int32(5))
}
