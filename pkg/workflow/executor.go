// Package workflow implements the graph traversal engine: it loads a
// persisted workflow, walks it depth-first from the start node, dispatches
// node handlers, and records the execution trace.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowgraph-io/flowgraph/pkg/expression"
	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
	"github.com/flowgraph-io/flowgraph/pkg/registry"
)

// ErrNoStartNode is returned for workflows where every node has an incoming
// edge, leaving the traversal nowhere to begin.
var ErrNoStartNode = errors.New("workflow has no start node")

// errExecutionCanceled stops the traversal when the execution record was
// moved to canceled while the run was in flight. The record already carries
// its terminal state, so the worker treats this as a graceful stop.
var errExecutionCanceled = errors.New("execution canceled")

// NodeExecutionError wraps a handler failure with the node it came from.
// Any node failure aborts the whole traversal.
type NodeExecutionError struct {
	NodeID   string
	NodeType string
	Err      error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %s (%s) failed: %v", e.NodeID, e.NodeType, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}

type Executor struct {
	workflows  persistence.WorkflowRepository
	executions persistence.ExecutionRepository
	registry   *registry.Registry
	logger     *slog.Logger
}

func NewExecutor(
	workflows persistence.WorkflowRepository,
	executions persistence.ExecutionRepository,
	reg *registry.Registry,
	logger *slog.Logger,
) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		workflows:  workflows,
		executions: executions,
		registry:   reg,
		logger:     logger.With("module", "workflow_executor"),
	}
}

// Execute runs the execution with the given id against its workflow. The
// terminal result is always written to the execution record before the error
// is returned, so redelivered jobs can detect completed work: executions
// already in a terminal state are skipped as no-ops.
func (e *Executor) Execute(ctx context.Context, executionID string, inputData any) error {
	execution, err := e.executions.ExecutionByID(ctx, executionID)
	if err != nil {
		return fmt.Errorf("failed to load execution %s: %w", executionID, err)
	}

	logger := e.logger.With(
		"execution_id", executionID,
		"workflow_id", execution.WorkflowID,
	)

	if execution.Status.IsTerminal() {
		logger.Info("Execution already finished, skipping", "status", execution.Status)

		return nil
	}

	logger.Info("Starting workflow execution")

	workflow, err := e.workflows.WorkflowByID(ctx, execution.WorkflowID)
	if err != nil {
		return e.finishWithError(ctx, execution, fmt.Errorf("failed to load workflow %s: %w", execution.WorkflowID, err))
	}

	ec := models.NewExecutionContext(executionID, execution.UserID, workflow, inputData, logger)

	start := startNode(workflow)
	if start == nil {
		return e.finishWithError(ctx, execution, ErrNoStartNode)
	}

	err = e.visit(ctx, ec, start)

	switch {
	case errors.Is(err, errExecutionCanceled):
		logger.Info("Execution canceled mid-traversal")

		return nil
	case err != nil:
		e.recordResult(execution, ec)

		return e.finishWithError(ctx, execution, err)
	}

	e.recordResult(execution, ec)

	// The record may have been moved to canceled while the final node was
	// running; a terminal status is never replaced with another one.
	canceled, cancelErr := e.isCanceled(ctx, executionID)
	if cancelErr != nil {
		return cancelErr
	}

	if canceled {
		logger.Info("Execution canceled during final node, keeping canceled record")

		return nil
	}

	now := time.Now().UTC()
	execution.Status = models.ExecutionStatusSuccess
	execution.FinishedAt = &now
	execution.UpdatedAt = now

	if err := e.executions.UpdateExecution(ctx, execution); err != nil {
		return fmt.Errorf("failed to persist execution result: %w", err)
	}

	logger.Info("Workflow execution completed", "duration", execution.Duration())

	return nil
}

// visit executes one node and recurses into its targets in edge declaration
// order. Nodes already visited keep their recorded output untouched.
func (e *Executor) visit(ctx context.Context, ec *models.ExecutionContext, node *models.WorkflowNode) error {
	if ec.Visited[node.ID] {
		return nil
	}

	// Fan-in readiness: a node reached along one path of a diamond waits
	// until its remaining predecessors have fired, and runs when the last
	// of them reaches it.
	if !predecessorsVisited(ec, node) {
		return nil
	}

	// Cancellation is cooperative: a record moved to canceled stops the
	// traversal before the next node, never mid-handler.
	canceled, err := e.isCanceled(ctx, ec.ExecutionID)
	if err != nil {
		return err
	}

	if canceled {
		return errExecutionCanceled
	}

	ec.CurrentNodeID = node.ID
	input := collectInput(ec, node)
	config := expression.ResolveMap(node.Data.Config, ec)

	trace := &models.NodeTrace{
		StartTime: time.Now().UTC(),
		NodeType:  node.Type,
	}

	output, execErr := e.runNode(ctx, ec, node, config, input)

	trace.ExecutionTime = time.Since(trace.StartTime).Milliseconds()
	trace.Data = output
	ec.RunData[node.ID] = trace
	ec.Visited[node.ID] = true

	if execErr != nil {
		trace.Error = &models.ExecutionError{Message: execErr.Err.Error()}

		return execErr
	}

	ec.NodeOutputs[node.ID] = output

	branch := output.Branch()

	for _, conn := range ec.Workflow.OutgoingConnections(node.ID) {
		if branch != "" && conn.SourceHandle != branch {
			continue
		}

		target := ec.Workflow.NodeByID(conn.Target)
		if target == nil {
			ec.Logger.Warn("Connection targets unknown node, skipping", "source", node.ID, "target", conn.Target)

			continue
		}

		if err := e.visit(ctx, ec, target); err != nil {
			return err
		}
	}

	return nil
}

// runNode validates the resolved configuration against the factory's schema
// and dispatches to the registered handler. Unknown node types pass the input
// through unchanged; validation, construction, and handler failures abort the
// traversal as a NodeExecutionError.
func (e *Executor) runNode(
	ctx context.Context,
	ec *models.ExecutionContext,
	node *models.WorkflowNode,
	config map[string]any,
	input any,
) (*models.NodeOutput, *NodeExecutionError) {
	if !e.registry.IsRegistered(node.Type) {
		ec.Logger.Warn("Unknown node type, passing input through", "node_id", node.ID, "node_type", node.Type)

		return &models.NodeOutput{Data: input}, nil
	}

	if config == nil {
		config = map[string]any{}
	}

	if err := e.registry.ValidateConfig(node.Type, config); err != nil {
		return nil, &NodeExecutionError{NodeID: node.ID, NodeType: node.Type, Err: err}
	}

	handler, err := e.registry.CreateNode(node.Type, node.ID, config)
	if err != nil {
		return nil, &NodeExecutionError{NodeID: node.ID, NodeType: node.Type, Err: err}
	}

	output, err := handler.Execute(ctx, ec, input)
	if err != nil {
		return nil, &NodeExecutionError{NodeID: node.ID, NodeType: node.Type, Err: err}
	}

	if output == nil {
		output = &models.NodeOutput{}
	}

	return output, nil
}

// collectInput joins the recorded outputs of the node's visited predecessors.
// Zero incoming edges means the node receives the original invocation
// payload. With several predecessors, sequences concatenate, mappings
// shallow-merge with later edges winning, and mixed shapes collect into a
// sequence in edge declaration order.
func collectInput(ec *models.ExecutionContext, node *models.WorkflowNode) any {
	incoming := ec.Workflow.IncomingConnections(node.ID)
	if len(incoming) == 0 {
		return ec.InputData
	}

	var sources []*models.NodeOutput

	for _, conn := range incoming {
		if output, ok := ec.NodeOutputs[conn.Source]; ok {
			sources = append(sources, output)
		}
	}

	switch len(sources) {
	case 0:
		return ec.InputData
	case 1:
		return sources[0].Data
	}

	return joinOutputs(sources)
}

func joinOutputs(sources []*models.NodeOutput) any {
	allSlices := true
	allMaps := true

	for _, output := range sources {
		if _, ok := output.Data.([]any); !ok {
			allSlices = false
		}

		if _, ok := output.Data.(map[string]any); !ok {
			allMaps = false
		}
	}

	switch {
	case allSlices:
		var joined []any
		for _, output := range sources {
			joined = append(joined, output.Data.([]any)...)
		}

		return joined
	case allMaps:
		joined := make(map[string]any)

		for _, output := range sources {
			for key, value := range output.Data.(map[string]any) {
				joined[key] = value
			}
		}

		return joined
	default:
		collected := make([]any, 0, len(sources))
		for _, output := range sources {
			collected = append(collected, output.Data)
		}

		return collected
	}
}

func predecessorsVisited(ec *models.ExecutionContext, node *models.WorkflowNode) bool {
	for _, conn := range ec.Workflow.IncomingConnections(node.ID) {
		if !ec.Visited[conn.Source] {
			return false
		}
	}

	return true
}

// startNode returns the first node in declaration order that no connection
// targets. Graphs with several such nodes start from the first one.
func startNode(workflow *models.Workflow) *models.WorkflowNode {
	targeted := make(map[string]bool, len(workflow.Connections))
	for _, conn := range workflow.Connections {
		targeted[conn.Target] = true
	}

	for _, node := range workflow.Nodes {
		if !targeted[node.ID] {
			return node
		}
	}

	return nil
}

func (e *Executor) isCanceled(ctx context.Context, executionID string) (bool, error) {
	execution, err := e.executions.ExecutionByID(ctx, executionID)
	if err != nil {
		return false, fmt.Errorf("failed to check execution status: %w", err)
	}

	return execution.Status == models.ExecutionStatusCanceled, nil
}

func (e *Executor) recordResult(execution *models.Execution, ec *models.ExecutionContext) {
	execution.Data.ResultData.RunData = ec.RunData
	execution.Data.ResultData.NodeOutputs = ec.NodeOutputs
}

// finishWithError applies the error terminal transition before returning the
// cause, so a failed run is never left ambiguous in the record.
func (e *Executor) finishWithError(ctx context.Context, execution *models.Execution, cause error) error {
	if canceled, checkErr := e.isCanceled(ctx, execution.ID); checkErr == nil && canceled {
		e.logger.Info("Execution canceled before failure was recorded, keeping canceled record",
			"execution_id", execution.ID, "error", cause)

		return cause
	}

	now := time.Now().UTC()
	execution.Status = models.ExecutionStatusError
	execution.FinishedAt = &now
	execution.UpdatedAt = now
	execution.Data.Error = cause.Error()
	execution.Error = &models.ExecutionError{Message: cause.Error()}

	var nodeErr *NodeExecutionError
	if errors.As(cause, &nodeErr) {
		execution.Error.Stack = fmt.Sprintf("node=%s type=%s", nodeErr.NodeID, nodeErr.NodeType)
	}

	if err := e.executions.UpdateExecution(ctx, execution); err != nil {
		e.logger.Error("Failed to persist failed execution", "execution_id", execution.ID, "error", err)
	}

	return cause
}
