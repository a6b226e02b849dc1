package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
)

// FileStore keeps uploaded files under files/<id>/ with a metadata document
// next to the raw content. Ownership is enforced on every read.
type FileStore struct {
	root string
	mu   sync.RWMutex
}

// NewFileStore creates a new file store rooted at the given directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) fileDir(fileID string) string {
	return filepath.Join(s.root, "files", fileID)
}

// SaveFile stores the file's metadata and content.
func (s *FileStore) SaveFile(ctx context.Context, info *models.FileInfo, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.fileDir(info.ID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create file directory: %w", err)
	}

	info.Size = int64(len(content))

	if err := writeDocument(filepath.Join(dir, "meta.json"), info); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, "content"), content, 0o600); err != nil {
		return fmt.Errorf("failed to write file content: %w", err)
	}

	return nil
}

func (s *FileStore) GetFileByID(ctx context.Context, fileID, ownerID string) (*models.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadMeta(fileID, ownerID)
}

func (s *FileStore) GetFileContent(ctx context.Context, fileID, ownerID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.loadMeta(fileID, ownerID); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(s.fileDir(fileID), "content"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrFileNotFound
		}

		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	return content, nil
}

func (s *FileStore) loadMeta(fileID, ownerID string) (*models.FileInfo, error) {
	raw, err := os.ReadFile(filepath.Join(s.fileDir(fileID), "meta.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrFileNotFound
		}

		return nil, fmt.Errorf("failed to read file metadata: %w", err)
	}

	var info models.FileInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("failed to decode file metadata: %w", err)
	}

	if info.OwnerID != ownerID {
		return nil, persistence.ErrFileForbidden
	}

	return &info, nil
}
