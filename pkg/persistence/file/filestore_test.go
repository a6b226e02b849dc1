package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	info := &models.FileInfo{
		ID:       "file-1",
		Filename: "contacts.csv",
		MimeType: "text/csv",
		OwnerID:  "user-1",
	}
	require.NoError(t, store.SaveFile(ctx, info, []byte("name\nAda\n")))

	loaded, err := store.GetFileByID(ctx, "file-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "contacts.csv", loaded.Filename)
	assert.Equal(t, int64(9), loaded.Size)

	content, err := store.GetFileContent(ctx, "file-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "name\nAda\n", string(content))
}

func TestFileStoreEnforcesOwnership(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	info := &models.FileInfo{ID: "file-1", Filename: "secret.txt", OwnerID: "user-1"}
	require.NoError(t, store.SaveFile(ctx, info, []byte("classified")))

	_, err := store.GetFileContent(ctx, "file-1", "user-2")
	require.ErrorIs(t, err, persistence.ErrFileForbidden)

	_, err = store.GetFileByID(ctx, "missing", "user-1")
	require.ErrorIs(t, err, persistence.ErrFileNotFound)
}
