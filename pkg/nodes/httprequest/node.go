// Package httprequest provides the HTTP request node handler.
package httprequest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flowgraph-io/flowgraph/pkg/models"
)

const (
	AuthNone        = "none"
	AuthBasic       = "basicAuth"
	AuthBearerToken = "bearerToken"
	AuthAPIKey      = "apiKey"
)

// Config defines the configuration for HTTP request nodes. Expressions in
// the raw config are resolved by the engine before the handler is built.
type Config struct {
	URL             string
	Method          string
	Headers         map[string]string
	QueryParameters map[string]string
	Body            any
	Authentication  string
	Username        string
	Password        string
	Token           string
	APIKeyName      string
	APIKeyValue     string
	TimeoutMillis   int
	RetryOnFail     bool
	RetryCount      int
}

type HTTPRequestNode struct {
	id      string
	config  Config
	client  *http.Client
	backoff time.Duration
}

func NewHTTPRequestNode(id string, config map[string]any) (*HTTPRequestNode, error) {
	parsed := Config{
		Method:          http.MethodGet,
		Headers:         make(map[string]string),
		QueryParameters: make(map[string]string),
		Authentication:  AuthNone,
		TimeoutMillis:   30000,
		RetryCount:      3,
	}

	url, ok := config["url"].(string)
	if !ok || url == "" {
		return nil, errors.New("missing required field 'url'")
	}

	parsed.URL = url

	if method, ok := config["method"].(string); ok && method != "" {
		parsed.Method = strings.ToUpper(method)
	}

	if headers, ok := config["headers"].(map[string]any); ok {
		for key, value := range headers {
			parsed.Headers[key] = fmt.Sprintf("%v", value)
		}
	}

	if params, ok := config["queryParameters"].(map[string]any); ok {
		for key, value := range params {
			parsed.QueryParameters[key] = fmt.Sprintf("%v", value)
		}
	}

	parsed.Body = config["body"]

	if auth, ok := config["authentication"].(string); ok && auth != "" {
		parsed.Authentication = auth
	}

	parsed.Username, _ = config["username"].(string)
	parsed.Password, _ = config["password"].(string)
	parsed.Token, _ = config["token"].(string)
	parsed.APIKeyName, _ = config["apiKeyName"].(string)
	parsed.APIKeyValue, _ = config["apiKeyValue"].(string)

	if timeout, ok := config["timeout"].(float64); ok && timeout > 0 {
		parsed.TimeoutMillis = int(timeout)
	}

	if retry, ok := config["retryOnFail"].(bool); ok {
		parsed.RetryOnFail = retry
	}

	if count, ok := config["retryCount"].(float64); ok && count > 0 {
		parsed.RetryCount = int(count)
	}

	return &HTTPRequestNode{
		id:     id,
		config: parsed,
		client: &http.Client{
			Timeout: time.Duration(parsed.TimeoutMillis) * time.Millisecond,
		},
		backoff: time.Second,
	}, nil
}

func (n *HTTPRequestNode) ID() string {
	return n.id
}

func (n *HTTPRequestNode) Type() string {
	return "httpRequest"
}

// Execute performs the HTTP call, retrying with linear backoff when
// retryOnFail is set. The attempt that produced the output is recorded in
// the output metadata.
func (n *HTTPRequestNode) Execute(ctx context.Context, _ *models.ExecutionContext, input any) (*models.NodeOutput, error) {
	attempts := 1
	if n.config.RetryOnFail {
		attempts = n.config.RetryCount
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt) * n.backoff

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		output, err := n.performRequest(ctx, input)
		if err == nil {
			output.Metadata["attempt"] = attempt

			return output, nil
		}

		lastErr = err
	}

	return nil, fmt.Errorf("HTTP request failed after %d attempts: %w", attempts, lastErr)
}

func (n *HTTPRequestNode) performRequest(ctx context.Context, input any) (*models.NodeOutput, error) {
	var reqBody io.Reader

	body := n.config.Body
	if body == nil && n.config.Method != http.MethodGet && n.config.Method != http.MethodHead {
		body = input
	}

	contentType := ""

	switch typed := body.(type) {
	case nil:
	case string:
		if typed != "" {
			reqBody = strings.NewReader(typed)
		}
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		reqBody = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, n.config.Method, n.config.URL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for key, value := range n.config.Headers {
		req.Header.Set(key, value)
	}

	if len(n.config.QueryParameters) > 0 {
		query := req.URL.Query()
		for key, value := range n.config.QueryParameters {
			query.Set(key, value)
		}

		req.URL.RawQuery = query.Encode()
	}

	n.applyAuth(req)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	headers := make(map[string]any, len(resp.Header))
	for key := range resp.Header {
		headers[key] = resp.Header.Get(key)
	}

	return &models.NodeOutput{
		Data: parseBody(respBody),
		Metadata: map[string]any{
			"statusCode": resp.StatusCode,
			"headers":    headers,
		},
	}, nil
}

func (n *HTTPRequestNode) applyAuth(req *http.Request) {
	switch n.config.Authentication {
	case AuthBasic:
		req.SetBasicAuth(n.config.Username, n.config.Password)
	case AuthBearerToken:
		req.Header.Set("Authorization", "Bearer "+n.config.Token)
	case AuthAPIKey:
		if n.config.APIKeyName != "" {
			req.Header.Set(n.config.APIKeyName, n.config.APIKeyValue)
		}
	}
}

// parseBody decodes JSON responses, leaving everything else as text.
func parseBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return decoded
	}

	return string(body)
}
