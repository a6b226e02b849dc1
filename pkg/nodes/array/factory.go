package array

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

var conditionItemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"field": map[string]any{"type": "string"},
		"operator": map[string]any{
			"type": "string",
			"enum": []string{"equals", "notEquals", "contains", "greaterThan", "lessThan"},
		},
		"value": map[string]any{},
	},
}

// FilterNodeFactory creates FilterNode instances.
type FilterNodeFactory struct{}

func NewFilterNodeFactory() protocol.NodeFactory {
	return &FilterNodeFactory{}
}

func (f *FilterNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewFilterNode(id, config)
}

func (f *FilterNodeFactory) ID() string {
	return "filter"
}

func (f *FilterNodeFactory) Name() string {
	return "Filter"
}

func (f *FilterNodeFactory) Description() string {
	return "Keeps input items matching the configured conditions"
}

func (f *FilterNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"conditions": map[string]any{
				"type":  "array",
				"items": conditionItemSchema,
			},
			"combineOperation": map[string]any{
				"type":    "string",
				"enum":    []string{"AND", "OR"},
				"default": "AND",
			},
		},
	}
}

// SortNodeFactory creates SortNode instances.
type SortNodeFactory struct{}

func NewSortNodeFactory() protocol.NodeFactory {
	return &SortNodeFactory{}
}

func (f *SortNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewSortNode(id, config)
}

func (f *SortNodeFactory) ID() string {
	return "sort"
}

func (f *SortNodeFactory) Name() string {
	return "Sort"
}

func (f *SortNodeFactory) Description() string {
	return "Sorts input items by a field"
}

func (f *SortNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sortBy": map[string]any{"type": "string"},
			"order": map[string]any{
				"type":    "string",
				"enum":    []string{OrderAscending, OrderDescending},
				"default": OrderAscending,
			},
		},
		"required": []string{"sortBy"},
	}
}

// LimitNodeFactory creates LimitNode instances.
type LimitNodeFactory struct{}

func NewLimitNodeFactory() protocol.NodeFactory {
	return &LimitNodeFactory{}
}

func (f *LimitNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewLimitNode(id, config)
}

func (f *LimitNodeFactory) ID() string {
	return "limit"
}

func (f *LimitNodeFactory) Name() string {
	return "Limit"
}

func (f *LimitNodeFactory) Description() string {
	return "Truncates the input items to a maximum count"
}

func (f *LimitNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"maxItems": map[string]any{
				"type":    "number",
				"minimum": 1,
			},
		},
		"required": []string{"maxItems"},
	}
}
