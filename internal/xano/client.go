// Package xano is a thin client for the Xano metadata API: workspace and
// table enumeration, paged table content, and API group / endpoint
// management. Calls are sequential and rate-limited to stay a polite citizen
// of the shared metadata plane. There are no retries: a failed call is
// surfaced to the caller as the terminal outcome of the operation.
package xano

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds client settings.
type Config struct {
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"` // e.g. https://x1234-abcd.xano.io/api:meta
	Token        string        `mapstructure:"token" yaml:"token"`
	RateLimit    float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PageSize     int           `mapstructure:"page_size" yaml:"page_size"`
	MaxRowsTable int           `mapstructure:"max_rows_per_table" yaml:"max_rows_per_table"`
}

// APIError is a non-2xx response from the metadata API.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("xano api: status %d: %s (request %s)", e.Status, e.Message, e.RequestID)
}

// Client talks to one Xano instance with one access token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	cfg     Config
	log     *zap.Logger
}

// NewClient validates the config and returns a ready client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("xano: base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("xano: access token is required")
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		cfg:     cfg,
		log:     logger.Named("XanoClient"),
	}, nil
}

// do performs one rate-limited request and decodes the JSON response into
// out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("xano: encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	requestID := uuid.New().String()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("xano: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("Metadata API call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := readErrorMessage(resp.Body)
		return &APIError{Status: resp.StatusCode, Message: msg, RequestID: requestID}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("xano: decode %s %s: %w", method, path, err)
	}
	return nil
}

// readErrorMessage pulls a human-readable message out of an error body,
// falling back to the raw text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no response body"
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}

// ListWorkspaces enumerates the workspaces visible to the token.
func (c *Client) ListWorkspaces(ctx context.Context) ([]schemas.Workspace, error) {
	var out []schemas.Workspace
	if err := c.do(ctx, http.MethodGet, "/workspace", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTables enumerates the tables of a workspace.
func (c *Client) ListTables(ctx context.Context, workspaceID int) ([]schemas.Table, error) {
	var out struct {
		Items []schemas.Table `json:"items"`
	}
	path := fmt.Sprintf("/workspace/%d/table", workspaceID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// TableContent pages through a table's rows until exhausted or until the
// configured per-table row cap is hit.
func (c *Client) TableContent(ctx context.Context, workspaceID, tableID int) ([]schemas.Record, error) {
	var records []schemas.Record
	page := 1
	for {
		var out schemas.ContentPage
		path := fmt.Sprintf("/workspace/%d/table/%d/content?page=%d&per_page=%d",
			workspaceID, tableID, page, c.cfg.PageSize)
		if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, err
		}
		records = append(records, out.Items...)

		if c.cfg.MaxRowsTable > 0 && len(records) >= c.cfg.MaxRowsTable {
			records = records[:c.cfg.MaxRowsTable]
			break
		}
		if out.NextPage == nil || len(out.Items) == 0 {
			break
		}
		page = *out.NextPage
	}
	return records, nil
}

// ListAPIGroups enumerates a workspace's API groups.
func (c *Client) ListAPIGroups(ctx context.Context, workspaceID int) ([]schemas.APIGroup, error) {
	var out struct {
		Items []schemas.APIGroup `json:"items"`
	}
	path := fmt.Sprintf("/workspace/%d/apigroup", workspaceID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateAPIGroup creates an API group in the workspace.
func (c *Client) CreateAPIGroup(ctx context.Context, workspaceID int, group schemas.APIGroup) (schemas.APIGroup, error) {
	var out schemas.APIGroup
	path := fmt.Sprintf("/workspace/%d/apigroup", workspaceID)
	if err := c.do(ctx, http.MethodPost, path, group, &out); err != nil {
		return schemas.APIGroup{}, err
	}
	return out, nil
}

// ListAPIs enumerates the endpoints of an API group.
func (c *Client) ListAPIs(ctx context.Context, workspaceID, groupID int) ([]schemas.API, error) {
	var out struct {
		Items []schemas.API `json:"items"`
	}
	path := fmt.Sprintf("/workspace/%d/apigroup/%d/api", workspaceID, groupID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateAPI adds an endpoint to an API group.
func (c *Client) CreateAPI(ctx context.Context, workspaceID, groupID int, api schemas.API) (schemas.API, error) {
	var out schemas.API
	path := fmt.Sprintf("/workspace/%d/apigroup/%d/api", workspaceID, groupID)
	if err := c.do(ctx, http.MethodPost, path, api, &out); err != nil {
		return schemas.API{}, err
	}
	return out, nil
}

// UpdateAPI replaces an existing endpoint in place.
func (c *Client) UpdateAPI(ctx context.Context, workspaceID, groupID int, api schemas.API) (schemas.API, error) {
	var out schemas.API
	path := fmt.Sprintf("/workspace/%d/apigroup/%d/api/%d", workspaceID, groupID, api.ID)
	if err := c.do(ctx, http.MethodPut, path, api, &out); err != nil {
		return schemas.API{}, err
	}
	return out, nil
}
