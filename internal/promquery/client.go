// Package promquery relays instant queries to a Prometheus HTTP API.
package promquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// QueryPath is the Prometheus instant query endpoint.
const QueryPath = "/api/v1/query"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrEmptyQuery is returned when Query is called without an expression.
var ErrEmptyQuery = errors.New("empty query expression")

// Querier runs a query and returns the decoded response body.
type Querier interface {
	Query(ctx context.Context, expr string) (any, error)
}

// Client is a resty-backed Querier.
type Client struct {
	client *resty.Client
	logger *zap.Logger
}

// NewClient creates a client for the Prometheus server at baseURL. Every query
// is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar())
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	return &Client{
		client: client,
		logger: logger.With(zap.String("component", "prometheus_client")),
	}
}

// Query issues GET /api/v1/query?query=expr. Any transport error, a non-2xx
// status or a body that is not JSON is returned as an error.
func (c *Client) Query(ctx context.Context, expr string) (any, error) {
	if expr == "" {
		return nil, ErrEmptyQuery
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("query", expr).
		Get(QueryPath)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%d %s for url: %s", resp.StatusCode(), http.StatusText(resp.StatusCode()), resp.Request.URL)
	}

	var body any
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode prometheus response: %w", err)
	}

	c.logger.Debug("prometheus query served",
		zap.String("query", expr),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()),
	)

	return body, nil
}

// String describes the client for logs.
func (c *Client) String() string {
	return fmt.Sprintf("prometheus http client: url=%v", c.client.BaseURL)
}
