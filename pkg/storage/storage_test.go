package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUploadExtension(t *testing.T) {
	tests := []struct {
		filename string
		valid    bool
	}{
		{"glossary.txt", true},
		{"contract.docx", true},
		{"statement.PDF", true},
		{"catalog.xlsx", true},
		{"malware.exe", false},
		{"archive.zip", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateUploadExtension(tt.filename))
		})
	}
}

func TestGenerateSourceDocumentKey(t *testing.T) {
	userID := uuid.New()
	key := GenerateSourceDocumentKey(userID, "contract.docx")

	assert.True(t, strings.HasPrefix(key, "uploads/"+userID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".docx"))

	// Two keys for the same file must not collide
	other := GenerateSourceDocumentKey(userID, "contract.docx")
	assert.NotEqual(t, key, other)
}

func TestLocalStorage_UploadDownloadDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	ctx := context.Background()
	content := []byte("Welcome to our store")

	result, err := store.Upload(ctx, "uploads/u1/a.txt", bytes.NewReader(content), int64(len(content)), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), result.Size)
	assert.Equal(t, "/files/uploads/u1/a.txt", result.URL)

	exists, err := store.Exists(ctx, "uploads/u1/a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := store.Download(ctx, "uploads/u1/a.txt")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, content, got)

	require.NoError(t, store.Delete(ctx, "uploads/u1/a.txt"))
	exists, err = store.Exists(ctx, "uploads/u1/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_RejectsPathTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "../escape.txt", bytes.NewReader(nil), 0, "text/plain")
	assert.Error(t, err)
}
