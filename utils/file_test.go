package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "uploads"), "/uploads/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "hike-screenshots/u1/a.png", []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/hike-screenshots/u1/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "uploads", "hike-screenshots", "u1", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, key := range []string{"../secret", "a/../../b", ""} {
		_, err := store.Put(context.Background(), key, []byte("x"), "text/plain")
		assert.Error(t, err, key)
	}
}

func TestR2Config_Enabled(t *testing.T) {
	assert.False(t, R2Config{}.Enabled())
	assert.False(t, R2Config{AccountID: "acc", AccessKeyID: "id", AccessKeySecret: "secret"}.Enabled())
	assert.True(t, R2Config{AccountID: "acc", AccessKeyID: "id", AccessKeySecret: "secret", Bucket: "hikes"}.Enabled())
}
