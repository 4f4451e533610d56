// Package fly talks to the Fly.io GraphQL API to manage app secrets.
package fly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultEndpoint is Fly's public GraphQL endpoint.
const DefaultEndpoint = "https://api.fly.io/graphql"

// Client sends GraphQL documents to Fly.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a client authenticating every request with a token from ts.
func NewClient(endpoint string, ts oauth2.TokenSource, log *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: http.DefaultTransport},
		},
		log: log,
	}
}

// do posts a document and decodes its data into out. When logVars is non-nil it is
// logged in place of vars.
func (c *Client) do(ctx context.Context, query string, vars, logVars map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if logVars == nil {
		logVars = vars
	}

	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	c.log.Debug("fly request",
		zap.String("request_id", reqID),
		zap.String("query", query),
		zap.Any("variables", logVars),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("fly response",
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", data),
	)

	var gqlResp graphQLResponse
	if err := json.Unmarshal(data, &gqlResp); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		first := gqlResp.Errors[0]
		return &APIError{StatusCode: resp.StatusCode, Message: first.Message, Code: first.Extensions.Code}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
