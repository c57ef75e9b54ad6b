package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage("http://localhost:8080/uploads/", t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := NewImageKey(7, "image/png")
	assert.True(t, strings.HasPrefix(key, "materials/7/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	url, err := store.Save(ctx, key, strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/"+key, url)

	back, ok := store.KeyFromURL(url)
	require.True(t, ok)
	assert.Equal(t, key, back)

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, ErrFileMissing)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage("http://x", t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../../etc/passwd", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = store.Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, ok := store.KeyFromURL("http://elsewhere/a.png")
	assert.False(t, ok)
}

func TestNewImageKey_UnknownType(t *testing.T) {
	assert.True(t, strings.HasSuffix(NewImageKey(1, "application/pdf"), ".bin"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestLocalStorage_SaveFailureRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage("http://x", dir)
	require.NoError(t, err)

	key := "materials/3/broken.png"
	_, err = store.Save(context.Background(), key, io.MultiReader(strings.NewReader("partial"), failingReader{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	_, statErr := os.Stat(filepath.Join(dir, "materials", "3", "broken.png"))
	assert.True(t, os.IsNotExist(statErr))
}
