// Package expression resolves {{...}} template expressions against a live
// execution context. Resolution never fails: unresolvable expressions degrade
// to the original placeholder text so downstream nodes can observe the raw
// expression instead of crashing the traversal.
package expression

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/google/uuid"
)

var placeholderPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Resolve substitutes every {{...}} occurrence in the input string. When the
// whole string is a single expression the evaluated value keeps its type;
// otherwise results are stringified and interpolated.
func Resolve(input string, ec *models.ExecutionContext) any {
	return resolveString(input, ec, nil)
}

// ResolveWithItem resolves with $item bound to the given array element, for
// handlers that fan out over array inputs.
func ResolveWithItem(input string, ec *models.ExecutionContext, item any) any {
	return resolveString(input, ec, item)
}

// ResolveAny applies Resolve recursively over nested configuration: maps and
// slices are resolved element-wise, non-string scalars pass through.
func ResolveAny(value any, ec *models.ExecutionContext) any {
	switch v := value.(type) {
	case string:
		return Resolve(v, ec)
	case map[string]any:
		resolved := make(map[string]any, len(v))
		for key, elem := range v {
			resolved[key] = ResolveAny(elem, ec)
		}

		return resolved
	case []any:
		resolved := make([]any, len(v))
		for i, elem := range v {
			resolved[i] = ResolveAny(elem, ec)
		}

		return resolved
	default:
		return value
	}
}

// ResolveMap resolves a node configuration map. The input map is not mutated.
func ResolveMap(config map[string]any, ec *models.ExecutionContext) map[string]any {
	if config == nil {
		return nil
	}

	resolved, _ := ResolveAny(config, ec).(map[string]any)

	return resolved
}

func resolveString(input string, ec *models.ExecutionContext, item any) any {
	matches := placeholderPattern.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return input
	}

	// Whole string is one expression: preserve the evaluated type.
	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(input) {
		value, ok := evaluate(strings.TrimSpace(input[matches[0][2]:matches[0][3]]), ec, item)
		if !ok {
			return input
		}

		return value
	}

	return placeholderPattern.ReplaceAllStringFunc(input, func(placeholder string) string {
		inner := strings.TrimSpace(placeholder[2 : len(placeholder)-2])

		value, ok := evaluate(inner, ec, item)
		if !ok {
			return placeholder
		}

		return stringifyValue(value)
	})
}

// evaluate dispatches on the expression prefix. The second return reports
// whether the expression resolved.
func evaluate(expr string, ec *models.ExecutionContext, item any) (any, bool) {
	switch {
	case expr == "$now":
		return time.Now().UTC().Format(time.RFC3339), true
	case expr == "$timestamp":
		return time.Now().UnixMilli(), true
	case expr == "$uuid":
		return uuid.NewString(), true
	case strings.HasPrefix(expr, "$random("):
		return evaluateRandom(expr)
	case strings.HasPrefix(expr, "$node."):
		return evaluateNode(strings.TrimPrefix(expr, "$node."), ec)
	case strings.HasPrefix(expr, "$prev."):
		return evaluatePrev(strings.TrimPrefix(expr, "$prev."), ec)
	case strings.HasPrefix(expr, "$input."):
		return lookupPath(inputData(ec), splitPath(strings.TrimPrefix(expr, "$input.")))
	case strings.HasPrefix(expr, "$item."):
		return lookupPath(item, splitPath(strings.TrimPrefix(expr, "$item.")))
	default:
		return nil, false
	}
}

func inputData(ec *models.ExecutionContext) any {
	if ec == nil {
		return nil
	}

	return ec.InputData
}

// evaluateNode resolves $node.<idOrAlias>.<path...>. The first segment is
// matched against recorded node ids; failing that, a type_index alias such as
// code_1 selects the nth node of that type in declaration order.
func evaluateNode(rest string, ec *models.ExecutionContext) (any, bool) {
	if ec == nil {
		return nil, false
	}

	segments := splitPath(rest)
	if len(segments) == 0 {
		return nil, false
	}

	ref := segments[0].name

	output, ok := ec.NodeOutputs[ref]
	if !ok {
		aliasID, found := resolveTypeAlias(ref, ec)
		if !found {
			return nil, false
		}

		if output, ok = ec.NodeOutputs[aliasID]; !ok {
			return nil, false
		}
	}

	return lookupPath(outputAsMap(output), segments[1:])
}

// evaluatePrev resolves against the single immediate predecessor of the
// currently executing node. A leading "data." is optional.
func evaluatePrev(rest string, ec *models.ExecutionContext) (any, bool) {
	if ec == nil {
		return nil, false
	}

	prevID := ec.PreviousNodeID()
	if prevID == "" {
		return nil, false
	}

	output, ok := ec.NodeOutputs[prevID]
	if !ok {
		return nil, false
	}

	segments := splitPath(rest)
	if len(segments) > 0 && segments[0].name != "data" && segments[0].name != "metadata" {
		segments = append([]pathSegment{{name: "data", index: -1}}, segments...)
	}

	return lookupPath(outputAsMap(output), segments)
}

// resolveTypeAlias maps type_index references (the 1st code node is code_1)
// onto node ids. Nodes that have already run count in the order they started,
// so code_1 is the first code node the traversal reached; nodes without a
// recorded trace follow in declaration order.
func resolveTypeAlias(alias string, ec *models.ExecutionContext) (string, bool) {
	underscore := strings.LastIndex(alias, "_")
	if underscore <= 0 {
		return "", false
	}

	nodeType := alias[:underscore]

	ordinal, err := strconv.Atoi(alias[underscore+1:])
	if err != nil || ordinal < 1 {
		return "", false
	}

	var candidates []*models.WorkflowNode

	for _, node := range ec.Workflow.Nodes {
		if node.Type == nodeType {
			candidates = append(candidates, node)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		left, leftRan := ec.RunData[candidates[i].ID]
		right, rightRan := ec.RunData[candidates[j].ID]

		switch {
		case leftRan && rightRan:
			return left.StartTime.Before(right.StartTime)
		case leftRan:
			return true
		default:
			return false
		}
	})

	if ordinal <= len(candidates) {
		return candidates[ordinal-1].ID, true
	}

	return "", false
}

func evaluateRandom(expr string) (any, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(expr, "$random("), ")")

	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return nil, false
	}

	low, errLow := strconv.Atoi(strings.TrimSpace(parts[0]))
	high, errHigh := strconv.Atoi(strings.TrimSpace(parts[1]))

	if errLow != nil || errHigh != nil || high < low {
		return nil, false
	}

	return int64(low + rand.Intn(high-low+1)), true
}

// outputAsMap exposes a NodeOutput to path lookup as {data, metadata}.
func outputAsMap(output *models.NodeOutput) map[string]any {
	if output == nil {
		return nil
	}

	return map[string]any{
		"data":     output.Data,
		"metadata": output.Metadata,
	}
}

type pathSegment struct {
	name  string
	index int // -1 when no [idx] suffix
}

var indexSuffix = regexp.MustCompile(`^(.*)\[(\d+)\]$`)

func splitPath(path string) []pathSegment {
	if path == "" {
		return nil
	}

	raw := strings.Split(path, ".")
	segments := make([]pathSegment, 0, len(raw))

	for _, part := range raw {
		segment := pathSegment{name: part, index: -1}

		if match := indexSuffix.FindStringSubmatch(part); match != nil {
			segment.name = match[1]
			segment.index, _ = strconv.Atoi(match[2])
		}

		segments = append(segments, segment)
	}

	return segments
}

func lookupPath(root any, segments []pathSegment) (any, bool) {
	current := root

	for _, segment := range segments {
		if segment.name != "" {
			asMap, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}

			if current, ok = asMap[segment.name]; !ok {
				return nil, false
			}
		}

		if segment.index >= 0 {
			asSlice, ok := current.([]any)
			if !ok || segment.index >= len(asSlice) {
				return nil, false
			}

			current = asSlice[segment.index]
		}
	}

	return current, true
}

func stringifyValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
