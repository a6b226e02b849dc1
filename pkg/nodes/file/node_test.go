package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
)

type fakeFileStore struct {
	files map[string]*models.FileInfo
	data  map[string][]byte
}

func (f *fakeFileStore) GetFileContent(_ context.Context, fileID, ownerID string) ([]byte, error) {
	info, ok := f.files[fileID]
	if !ok {
		return nil, persistence.ErrFileNotFound
	}

	if info.OwnerID != ownerID {
		return nil, persistence.ErrFileForbidden
	}

	return f.data[fileID], nil
}

func (f *fakeFileStore) GetFileByID(_ context.Context, fileID, ownerID string) (*models.FileInfo, error) {
	info, ok := f.files[fileID]
	if !ok {
		return nil, persistence.ErrFileNotFound
	}

	if info.OwnerID != ownerID {
		return nil, persistence.ErrFileForbidden
	}

	return info, nil
}

func testContext() *models.ExecutionContext {
	return models.NewExecutionContext("exec-1", "user-1", &models.Workflow{ID: "wf-1"}, nil, nil)
}

func TestReadFileNodeReadsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("sku,qty\nA,5\nB,3\n"), 0o644))

	node, err := NewReadFileNode("file-1", map[string]any{"filePath": path})
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "csv", output.Metadata["fileType"])

	content := output.Data.(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, map[string]any{"sku": "A", "qty": "5"}, content[0])
}

func TestReadFileNodeWriteAndAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "log.txt")

	node, err := NewReadFileNode("file-1", map[string]any{
		"filePath":  path,
		"operation": OperationWrite,
		"content":   "line one\n",
	})
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), nil, nil)
	require.NoError(t, err)

	node, err = NewReadFileNode("file-2", map[string]any{
		"filePath":  path,
		"operation": OperationAppend,
		"content":   "line two\n",
	})
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), nil, nil)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(content))
}

func TestUploadFileNodeParsesJSON(t *testing.T) {
	store := &fakeFileStore{
		files: map[string]*models.FileInfo{
			"f-1": {ID: "f-1", Filename: "payload.json", MimeType: "application/json", OwnerID: "user-1"},
		},
		data: map[string][]byte{
			"f-1": []byte(`{"orders": [1, 2]}`),
		},
	}

	node, err := NewUploadFileNode("upload-1", map[string]any{"fileId": "f-1"}, store)
	require.NoError(t, err)

	output, err := node.Execute(context.Background(), testContext(), nil)
	require.NoError(t, err)
	assert.Equal(t, "json", output.Metadata["fileType"])
	assert.Equal(t, map[string]any{"orders": []any{float64(1), float64(2)}}, output.Data)
}

func TestUploadFileNodeEnforcesOwnership(t *testing.T) {
	store := &fakeFileStore{
		files: map[string]*models.FileInfo{
			"f-2": {ID: "f-2", Filename: "secret.csv", OwnerID: "someone-else"},
		},
		data: map[string][]byte{"f-2": []byte("a,b\n1,2\n")},
	}

	node, err := NewUploadFileNode("upload-1", map[string]any{"fileId": "f-2"}, store)
	require.NoError(t, err)

	_, err = node.Execute(context.Background(), testContext(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrFileForbidden)
}

func TestParseContentSpreadsheetAndBinary(t *testing.T) {
	data, kind, err := parseContent("image.png", "image/png", []byte{0x89, 0x50})
	require.NoError(t, err)
	assert.Equal(t, "binary", kind)
	assert.NotEmpty(t, data)
}
