package httprequest

import (
	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

// HTTPRequestNodeFactory creates HTTPRequestNode instances.
type HTTPRequestNodeFactory struct{}

func NewHTTPRequestNodeFactory() protocol.NodeFactory {
	return &HTTPRequestNodeFactory{}
}

func (f *HTTPRequestNodeFactory) Create(id string, config map[string]any) (protocol.NodeHandler, error) {
	return NewHTTPRequestNode(id, config)
}

func (f *HTTPRequestNodeFactory) ID() string {
	return "httpRequest"
}

func (f *HTTPRequestNodeFactory) Name() string {
	return "HTTP Request"
}

func (f *HTTPRequestNodeFactory) Description() string {
	return "Makes an HTTP API request with optional authentication and retry"
}

func (f *HTTPRequestNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Request URL, supports {{...}} expressions",
			},
			"method": map[string]any{
				"type":    "string",
				"enum":    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD"},
				"default": "GET",
			},
			"headers":         map[string]any{"type": "object"},
			"queryParameters": map[string]any{"type": "object"},
			"body":            map[string]any{},
			"authentication": map[string]any{
				"type":    "string",
				"enum":    []string{AuthNone, AuthBasic, AuthBearerToken, AuthAPIKey},
				"default": AuthNone,
			},
			"username":    map[string]any{"type": "string"},
			"password":    map[string]any{"type": "string"},
			"token":       map[string]any{"type": "string"},
			"apiKeyName":  map[string]any{"type": "string"},
			"apiKeyValue": map[string]any{"type": "string"},
			"timeout": map[string]any{
				"type":        "number",
				"description": "Request timeout in milliseconds",
				"default":     30000,
			},
			"retryOnFail": map[string]any{
				"type":    "boolean",
				"default": false,
			},
			"retryCount": map[string]any{
				"type":    "number",
				"default": 3,
				"minimum": 1,
			},
		},
		"required": []string{"url"},
	}
}
