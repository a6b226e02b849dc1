// Package code provides the sandboxed JavaScript node handler. Scripts run
// in an embedded interpreter with no ambient I/O, a console shim, and a hard
// wall-clock timeout enforced by the host.
package code

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dop251/goja"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

const (
	ModeAllItems = "runOnceForAllItems"
	ModeEachItem = "runOnceForEachItem"

	defaultTimeout = 10 * time.Second
)

var errTimeout = errors.New("code execution timed out")

type CodeNode struct {
	id      string
	code    string
	mode    string
	timeout time.Duration
}

func NewCodeNode(id string, config map[string]any) (*CodeNode, error) {
	script, ok := config["code"].(string)
	if !ok || script == "" {
		if script, ok = config["functionCode"].(string); !ok || script == "" {
			return nil, errors.New("missing required field 'code'")
		}
	}

	mode := ModeAllItems
	if configured, ok := config["mode"].(string); ok && configured != "" {
		mode = configured
	}

	timeout := defaultTimeout
	if millis, ok := config["timeout"].(float64); ok && millis > 0 {
		timeout = time.Duration(millis) * time.Millisecond
	}

	return &CodeNode{
		id:      id,
		code:    script,
		mode:    mode,
		timeout: timeout,
	}, nil
}

func (n *CodeNode) ID() string {
	return n.id
}

func (n *CodeNode) Type() string {
	return "code"
}

// Execute runs the script against the array-wrapped input. In each-item mode
// the script runs once per item and the results are collected.
func (n *CodeNode) Execute(ctx context.Context, ec *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	var logger *slog.Logger
	if ec != nil {
		logger = ec.Logger
	} else {
		logger = slog.Default()
	}

	items := wrapItems(input)

	if n.mode == ModeEachItem {
		results := make([]any, 0, len(items))

		for index, item := range items {
			result, err := n.run(ctx, logger, []any{item}, item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", index, err)
			}

			results = append(results, result)
		}

		return &models.NodeOutput{Data: results}, nil
	}

	result, err := n.run(ctx, logger, items, nil)
	if err != nil {
		return nil, err
	}

	return &models.NodeOutput{Data: result}, nil
}

// run executes the script in a fresh interpreter. The wall-clock timeout is
// enforced from outside the interpreter via its interrupt channel.
func (n *CodeNode) run(ctx context.Context, logger *slog.Logger, items []any, item any) (any, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	if err := vm.Set("items", items); err != nil {
		return nil, err
	}

	if item != nil {
		if err := vm.Set("item", item); err != nil {
			return nil, err
		}
	}

	if err := vm.Set("console", consoleShim(logger, n.id)); err != nil {
		return nil, err
	}

	timer := time.AfterFunc(n.timeout, func() {
		vm.Interrupt(errTimeout)
	})
	defer timer.Stop()

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	value, err := vm.RunString("(function() {\n" + n.code + "\n})()")
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause, ok := interrupted.Value().(error); ok {
				return nil, cause
			}

			return nil, errTimeout
		}

		return nil, fmt.Errorf("code execution failed: %w", err)
	}

	return value.Export(), nil
}

func consoleShim(logger *slog.Logger, nodeID string) map[string]any {
	logFn := func(args ...any) {
		logger.Info("console.log", "node_id", nodeID, "args", args)
	}

	return map[string]any{
		"log":   logFn,
		"info":  logFn,
		"warn":  func(args ...any) { logger.Warn("console.warn", "node_id", nodeID, "args", args) },
		"error": func(args ...any) { logger.Error("console.error", "node_id", nodeID, "args", args) },
	}
}

// wrapItems presents the input as an array: arrays pass through, single
// values are wrapped, nil becomes an empty item.
func wrapItems(input any) []any {
	switch typed := input.(type) {
	case nil:
		return []any{map[string]any{}}
	case []any:
		return typed
	default:
		return []any{typed}
	}
}
