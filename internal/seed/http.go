package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/roster/internal/domain/types"
)

// maxErrorBody bounds how much of an error response is quoted.
const maxErrorBody = 512

// Client talks to the roster HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// report mirrors the list envelope returned by the report endpoints.
type report[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

// Health checks that the service answers on /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

// CreateServer posts one server.
func (c *Client) CreateServer(ctx context.Context, req types.CreateRequest) (types.Server, error) {
	var out types.Server
	err := c.do(ctx, http.MethodPost, "/servers", req, http.StatusCreated, &out)
	return out, err
}

// Alphabetical fetches the alphabetical report.
func (c *Client) Alphabetical(ctx context.Context) ([]types.NameEntry, error) {
	var out report[types.NameEntry]
	err := c.do(ctx, http.MethodGet, "/reports/alphabetical", nil, http.StatusOK, &out)
	return out.Items, err
}

// ServiceTime fetches the service-time report.
func (c *Client) ServiceTime(ctx context.Context) ([]types.ServiceTimeEntry, error) {
	var out report[types.ServiceTimeEntry]
	err := c.do(ctx, http.MethodGet, "/reports/service-time", nil, http.StatusOK, &out)
	return out.Items, err
}

// Compensation fetches the compensation report.
func (c *Client) Compensation(ctx context.Context) ([]types.CompensationEntry, error) {
	var out report[types.CompensationEntry]
	err := c.do(ctx, http.MethodGet, "/reports/compensation", nil, http.StatusOK, &out)
	return out.Items, err
}

// Similar fetches the k nearest servers to name.
func (c *Client) Similar(ctx context.Context, name string, k int) (types.SimilarResponse, error) {
	var out types.SimilarResponse
	path := "/servers/" + url.PathEscape(name) + "/similar?k=" + strconv.Itoa(k)
	err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}
