package file

import (
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// ReadFileNodeFactory creates ReadFileNode instances.
type ReadFileNodeFactory struct{}

func NewReadFileNodeFactory() protocol.NodeFactory {
	return &ReadFileNodeFactory{}
}

func (f *ReadFileNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewReadFileNode(id, config)
}

func (f *ReadFileNodeFactory) ID() string {
	return "readFile"
}

func (f *ReadFileNodeFactory) Name() string {
	return "Read/Write File"
}

func (f *ReadFileNodeFactory) Description() string {
	return "Reads or writes files on the local filesystem"
}

func (f *ReadFileNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":    "string",
				"enum":    []string{OperationRead, OperationWrite, OperationAppend},
				"default": OperationRead,
			},
			"filePath": map[string]any{"type": "string"},
			"encoding": map[string]any{
				"type":    "string",
				"enum":    []string{"utf-8", "base64", "binary"},
				"default": "utf-8",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content for write and append operations",
			},
		},
		"required": []string{"filePath"},
	}
}

// UploadFileNodeFactory creates UploadFileNode instances bound to the files
// collaborator.
type UploadFileNodeFactory struct {
	files persistence.FileStore
}

func NewUploadFileNodeFactory(files persistence.FileStore) protocol.NodeFactory {
	return &UploadFileNodeFactory{files: files}
}

func (f *UploadFileNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewUploadFileNode(id, config, f.files)
}

func (f *UploadFileNodeFactory) ID() string {
	return "uploadFile"
}

func (f *UploadFileNodeFactory) Name() string {
	return "Upload File"
}

func (f *UploadFileNodeFactory) Description() string {
	return "Loads an uploaded file and parses it by detected type"
}

func (f *UploadFileNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"fileId": map[string]any{"type": "string"},
			"parseOptions": map[string]any{
				"type":    "object",
				"default": map[string]any{},
			},
		},
		"required": []string{"fileId"},
	}
}
