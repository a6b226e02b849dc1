// Package array provides the filter, sort and limit node handlers. All three
// treat their input as an array, auto-wrapping single items.
package array

import (
	"context"
	"errors"
	"sort"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

const (
	OrderAscending  = "ascending"
	OrderDescending = "descending"
)

// FilterNode keeps the items matching its condition list.
type FilterNode struct {
	id         string
	conditions []models.Condition
	combinator string
}

func NewFilterNode(id string, config map[string]any) (*FilterNode, error) {
	var conditions []models.Condition

	if rawList, ok := config["conditions"].([]any); ok {
		for _, raw := range rawList {
			if rawMap, ok := raw.(map[string]any); ok {
				conditions = append(conditions, models.ParseCondition(rawMap))
			}
		}
	}

	combinator := models.CombinatorAnd
	if combined, ok := config["combineOperation"].(string); ok && combined != "" {
		combinator = combined
	}

	return &FilterNode{
		id:         id,
		conditions: conditions,
		combinator: combinator,
	}, nil
}

func (n *FilterNode) ID() string {
	return n.id
}

func (n *FilterNode) Type() string {
	return "filter"
}

func (n *FilterNode) Execute(_ context.Context, _ *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	items := asItems(input)
	kept := make([]any, 0, len(items))

	for _, item := range items {
		if models.EvaluateConditions(n.conditions, n.combinator, item) {
			kept = append(kept, item)
		}
	}

	return &models.NodeOutput{Data: kept}, nil
}

// SortNode orders the items by a field value.
type SortNode struct {
	id     string
	sortBy string
	order  string
}

func NewSortNode(id string, config map[string]any) (*SortNode, error) {
	sortBy, ok := config["sortBy"].(string)
	if !ok || sortBy == "" {
		return nil, errors.New("missing required field 'sortBy'")
	}

	order := OrderAscending
	if configured, ok := config["order"].(string); ok && configured != "" {
		order = configured
	}

	return &SortNode{
		id:     id,
		sortBy: sortBy,
		order:  order,
	}, nil
}

func (n *SortNode) ID() string {
	return n.id
}

func (n *SortNode) Type() string {
	return "sort"
}

func (n *SortNode) Execute(_ context.Context, _ *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	items := asItems(input)
	sorted := make([]any, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		left := models.LookupField(sorted[i], n.sortBy)
		right := models.LookupField(sorted[j], n.sortBy)

		if n.order == OrderDescending {
			return models.CompareFieldValues(left, right) > 0
		}

		return models.CompareFieldValues(left, right) < 0
	})

	return &models.NodeOutput{Data: sorted}, nil
}

// LimitNode truncates the items to a maximum count.
type LimitNode struct {
	id  string
	max int
}

func NewLimitNode(id string, config map[string]any) (*LimitNode, error) {
	max := 0

	switch limit := config["maxItems"].(type) {
	case float64:
		max = int(limit)
	case int:
		max = limit
	}

	if max <= 0 {
		return nil, errors.New("'maxItems' must be a positive number")
	}

	return &LimitNode{
		id:  id,
		max: max,
	}, nil
}

func (n *LimitNode) ID() string {
	return n.id
}

func (n *LimitNode) Type() string {
	return "limit"
}

func (n *LimitNode) Execute(_ context.Context, _ *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	items := asItems(input)
	if len(items) > n.max {
		items = items[:n.max]
	}

	return &models.NodeOutput{Data: items}, nil
}

func asItems(input any) []any {
	switch typed := input.(type) {
	case nil:
		return []any{}
	case []any:
		return typed
	default:
		return []any{typed}
	}
}
