package code

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// CodeNodeFactory creates CodeNode instances for the "code" type.
type CodeNodeFactory struct{}

func NewCodeNodeFactory() protocol.NodeFactory {
	return &CodeNodeFactory{}
}

func (f *CodeNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewCodeNode(id, config)
}

func (f *CodeNodeFactory) ID() string {
	return "code"
}

func (f *CodeNodeFactory) Name() string {
	return "Code"
}

func (f *CodeNodeFactory) Description() string {
	return "Runs custom JavaScript against the input items in a sandbox"
}

func (f *CodeNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"code": map[string]any{
				"type":        "string",
				"description": "JavaScript body; input is exposed as 'items'",
			},
			"mode": map[string]any{
				"type":    "string",
				"enum":    []string{ModeAllItems, ModeEachItem},
				"default": ModeAllItems,
			},
			"timeout": map[string]any{
				"type":        "number",
				"description": "Execution timeout in milliseconds",
			},
		},
		"required": []string{"code"},
	}
}

// FunctionNodeFactory is the legacy alias for the code node: same sandbox,
// config key 'functionCode'.
type FunctionNodeFactory struct{}

func NewFunctionNodeFactory() protocol.NodeFactory {
	return &FunctionNodeFactory{}
}

func (f *FunctionNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewCodeNode(id, config)
}

func (f *FunctionNodeFactory) ID() string {
	return "function"
}

func (f *FunctionNodeFactory) Name() string {
	return "Function"
}

func (f *FunctionNodeFactory) Description() string {
	return "Executes a JavaScript function over the input items"
}

func (f *FunctionNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"functionCode": map[string]any{"type": "string"},
		},
		"required": []string{"functionCode"},
	}
}
