// Package models provides field/operator/value predicate evaluation shared by
// the branching and filter nodes.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition operators.
const (
	OperatorEquals      = "equals"
	OperatorNotEquals   = "notEquals"
	OperatorContains    = "contains"
	OperatorGreaterThan = "greaterThan"
	OperatorLessThan    = "lessThan"
)

// Condition combinators.
const (
	CombinatorAnd = "and"
	CombinatorOr  = "or"
)

// Condition is one field/operator/value predicate evaluated against a node's
// input value.
type Condition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// ParseCondition builds a Condition from a raw config map.
func ParseCondition(raw map[string]any) Condition {
	cond := Condition{Operator: OperatorEquals}

	if field, ok := raw["field"].(string); ok {
		cond.Field = field
	}

	if op, ok := raw["operator"].(string); ok && op != "" {
		cond.Operator = op
	}

	cond.Value = raw["value"]

	return cond
}

// Evaluate resolves the condition field against the subject and applies the
// operator. Unknown operators evaluate to false.
func (c Condition) Evaluate(subject any) bool {
	actual := LookupField(subject, c.Field)

	switch c.Operator {
	case OperatorEquals, "":
		return equalValues(actual, c.Value)
	case OperatorNotEquals:
		return !equalValues(actual, c.Value)
	case OperatorContains:
		return strings.Contains(stringify(actual), stringify(c.Value))
	case OperatorGreaterThan:
		return bothPresent(actual, c.Value) && compareValues(actual, c.Value) > 0
	case OperatorLessThan:
		return bothPresent(actual, c.Value) && compareValues(actual, c.Value) < 0
	default:
		return false
	}
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return compareValues(a, b) == 0
}

// EvaluateConditions applies a combinator over the condition list. An empty
// list evaluates to true.
func EvaluateConditions(conditions []Condition, combinator string, subject any) bool {
	if len(conditions) == 0 {
		return true
	}

	if combinator == CombinatorOr {
		for _, cond := range conditions {
			if cond.Evaluate(subject) {
				return true
			}
		}

		return false
	}

	for _, cond := range conditions {
		if !cond.Evaluate(subject) {
			return false
		}
	}

	return true
}

// LookupField walks a dotted field path into maps. An empty field returns the
// subject itself.
func LookupField(subject any, field string) any {
	if field == "" {
		return subject
	}

	current := subject

	for _, segment := range strings.Split(field, ".") {
		asMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		current = asMap[segment]
	}

	return current
}

// CompareFieldValues orders two field values the way conditions do: nils
// sort first, numbers numerically, everything else lexically.
func CompareFieldValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	return compareValues(a, b)
}

// compareValues orders two values numerically when both parse as numbers,
// lexically otherwise.
func compareValues(a, b any) int {
	numA, okA := toNumber(a)
	numB, okB := toNumber(b)

	if okA && okB {
		switch {
		case numA < numB:
			return -1
		case numA > numB:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(stringify(a), stringify(b))
}

// bothPresent reports whether the pair can be ordered: nil values cannot.
func bothPresent(a, b any) bool {
	return a != nil && b != nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v)
}
