package file

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
)

const (
	OperationRead   = "read"
	OperationWrite  = "write"
	OperationAppend = "append"
)

// ReadFileNode reads or writes a file on the local filesystem.
type ReadFileNode struct {
	id        string
	operation string
	filePath  string
	encoding  string
	content   string
}

func NewReadFileNode(id string, config map[string]any) (*ReadFileNode, error) {
	filePath, ok := config["filePath"].(string)
	if !ok || filePath == "" {
		return nil, errors.New("missing required field 'filePath'")
	}

	node := &ReadFileNode{
		id:        id,
		operation: OperationRead,
		filePath:  filePath,
		encoding:  "utf-8",
	}

	if operation, ok := config["operation"].(string); ok && operation != "" {
		node.operation = operation
	}

	if node.operation != OperationRead && node.operation != OperationWrite && node.operation != OperationAppend {
		return nil, fmt.Errorf("invalid operation: %s", node.operation)
	}

	if encoding, ok := config["encoding"].(string); ok && encoding != "" {
		node.encoding = encoding
	}

	node.content, _ = config["content"].(string)

	return node, nil
}

func (n *ReadFileNode) ID() string {
	return n.id
}

func (n *ReadFileNode) Type() string {
	return "readFile"
}

func (n *ReadFileNode) Execute(_ context.Context, _ *models.ExecutionContext, _ any) (*models.NodeOutput, error) {
	switch n.operation {
	case OperationRead:
		content, err := os.ReadFile(n.filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}

		data, kind, err := n.decode(content)
		if err != nil {
			return nil, err
		}

		return &models.NodeOutput{
			Data: map[string]any{
				"content":  data,
				"filePath": n.filePath,
			},
			Metadata: map[string]any{"fileType": kind},
		}, nil
	default:
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if n.operation == OperationAppend {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}

		if err := os.MkdirAll(filepath.Dir(n.filePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}

		handle, err := os.OpenFile(n.filePath, flags, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer handle.Close()

		written, err := handle.WriteString(n.content)
		if err != nil {
			return nil, fmt.Errorf("failed to write file: %w", err)
		}

		return &models.NodeOutput{
			Data: map[string]any{
				"filePath":     n.filePath,
				"bytesWritten": written,
			},
		}, nil
	}
}

func (n *ReadFileNode) decode(content []byte) (any, string, error) {
	switch n.encoding {
	case "base64":
		return base64.StdEncoding.EncodeToString(content), "binary", nil
	case "binary":
		return content, "binary", nil
	default:
		return parseContent(filepath.Base(n.filePath), "", content)
	}
}

// UploadFileNode resolves an uploaded file through the files collaborator
// and parses it by detected type. Ownership is enforced by the store: the
// executing user can only read their own files.
type UploadFileNode struct {
	id     string
	fileID string
	files  persistence.FileStore
}

func NewUploadFileNode(id string, config map[string]any, files persistence.FileStore) (*UploadFileNode, error) {
	fileID, ok := config["fileId"].(string)
	if !ok || fileID == "" {
		return nil, errors.New("missing required field 'fileId'")
	}

	if files == nil {
		return nil, errors.New("file store is not configured")
	}

	return &UploadFileNode{
		id:     id,
		fileID: fileID,
		files:  files,
	}, nil
}

func (n *UploadFileNode) ID() string {
	return n.id
}

func (n *UploadFileNode) Type() string {
	return "uploadFile"
}

func (n *UploadFileNode) Execute(ctx context.Context, ec *models.ExecutionContext, _ any) (*models.NodeOutput, error) {
	ownerID := ""
	if ec != nil {
		ownerID = ec.UserID
	}

	info, err := n.files.GetFileByID(ctx, n.fileID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", n.fileID, err)
	}

	content, err := n.files.GetFileContent(ctx, n.fileID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", n.fileID, err)
	}

	data, kind, err := parseContent(info.Filename, info.MimeType, content)
	if err != nil {
		return nil, err
	}

	return &models.NodeOutput{
		Data: data,
		Metadata: map[string]any{
			"fileId":   n.fileID,
			"filename": info.Filename,
			"mimeType": info.MimeType,
			"fileType": kind,
		},
	}, nil
}
