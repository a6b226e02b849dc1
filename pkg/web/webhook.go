package web

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/flowgraph-io/flowgraph/pkg/models"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
)

// Webhook matches an inbound request against the workflow's webhook node and
// queues an execution carrying the captured request as input.
func (h *APIHandlers) Webhook(c fiber.Ctx) error {
	workflowID := c.Params("workflowId")

	workflow, err := h.workflows.WorkflowByID(c.Context(), workflowID)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "workflow not found")
		}

		return internalError(c, err)
	}

	if err := h.validateWorkflow(workflow); err != nil {
		return badRequest(c, err.Error())
	}

	node := matchWebhookNode(workflow, c.Params("*"), c.Method())
	if node == nil {
		return notFound(c, "no webhook matches this path and method")
	}

	if !authorizeWebhook(c, node.Data.Config) {
		return unauthorized(c, "webhook authentication failed")
	}

	receipt, err := h.executions.ExecuteWorkflow(
		c.Context(), workflowID, "", models.ExecutionModeWebhook, webhookPayload(c),
	)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(receipt)
}

// matchWebhookNode returns the first webhook node whose configured path and
// method match the request, or nil.
func matchWebhookNode(workflow *models.Workflow, path, method string) *models.WorkflowNode {
	for _, node := range workflow.Nodes {
		if node.Type != "webhook" {
			continue
		}

		configured, _ := node.Data.Config["path"].(string)
		if normalizePath(configured) != normalizePath(path) {
			continue
		}

		wantMethod, _ := node.Data.Config["method"].(string)
		if wantMethod == "" {
			wantMethod = fiber.MethodPost
		}

		if !strings.EqualFold(wantMethod, method) {
			continue
		}

		return node
	}

	return nil
}

func normalizePath(path string) string {
	return strings.Trim(path, "/")
}

// authorizeWebhook enforces the node's authentication mode: a shared key
// compared against a request header or query parameter.
func authorizeWebhook(c fiber.Ctx, config map[string]any) bool {
	mode, _ := config["authentication"].(string)
	if mode == "" || mode == "none" {
		return true
	}

	authKey, _ := config["authKey"].(string)
	authValue, _ := config["authValue"].(string)

	if authKey == "" || authValue == "" {
		return false
	}

	switch mode {
	case "headerAuth":
		return c.Get(authKey) == authValue
	case "queryAuth":
		return c.Query(authKey) == authValue
	default:
		return false
	}
}

// webhookPayload captures the request as the execution's input data.
func webhookPayload(c fiber.Ctx) map[string]any {
	var body any
	if raw := c.Body(); len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body = string(raw)
		}
	}

	headers := make(map[string]any)
	for key, values := range c.GetReqHeaders() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	query := make(map[string]any)
	for key, values := range c.Queries() {
		query[key] = values
	}

	return map[string]any{
		"body":    body,
		"headers": headers,
		"query":   query,
		"method":  c.Method(),
		"path":    c.Path(),
	}
}
