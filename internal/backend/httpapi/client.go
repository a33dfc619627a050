// Package httpapi implements the service.Backend interface over the research
// backend's JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"vessel/internal/config"
	"vessel/internal/normalize"
	"vessel/internal/service"
)

const (
	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody bounds how much of an error body is read for its detail.
	maxErrorBody = 4096
)

var _ service.Backend = (*Client)(nil)

// Client implements service.Backend over HTTP.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
}

// New creates a client from configuration. When an API token is configured,
// requests carry it as a bearer token.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.APIToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, src)
		httpClient.Timeout = cfg.Timeout
	}
	return NewWithHTTPClient(cfg.BaseURL, httpClient, log)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      httpClient,
		log:     log.Named("httpapi"),
	}, nil
}

// SearchNews runs GET /api/search/{topic}.
func (c *Client) SearchNews(ctx context.Context, topic string) ([]service.Article, error) {
	var payload normalize.NewsPayload
	if err := c.get(ctx, "/api/search/"+url.PathEscape(topic), nil, &payload); err != nil {
		return nil, err
	}
	return normalize.News(payload), nil
}

// ListTasks runs GET /api/tasks.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.get(ctx, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// TaskArticles runs GET /api/tasks/{id}.
func (c *Client) TaskArticles(ctx context.Context, taskID int) ([]service.Article, error) {
	var payload normalize.NewsPayload
	if err := c.get(ctx, "/api/tasks/"+strconv.Itoa(taskID), nil, &payload); err != nil {
		return nil, err
	}
	return normalize.News(payload), nil
}

// DeleteTask runs DELETE /api/tasks/{id}. The response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, taskID int) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+strconv.Itoa(taskID), nil, nil)
}

// SearchKnowledge runs GET /api/search/history?q={query}.
func (c *Client) SearchKnowledge(ctx context.Context, query string) ([]service.Document, error) {
	var docs []normalize.RawDocument
	if err := c.get(ctx, "/api/search/history", url.Values{"q": {query}}, &docs); err != nil {
		return nil, err
	}
	return normalize.Knowledge(docs), nil
}

// StockOverview runs GET /api/stock/{SYMBOL}.
func (c *Client) StockOverview(ctx context.Context, symbol string) (*service.StockOverview, error) {
	var raw map[string]any
	if err := c.get(ctx, "/api/stock/"+url.PathEscape(symbol), nil, &raw); err != nil {
		return nil, err
	}
	return normalize.StockOverview(raw), nil
}

// StockHistory runs GET /api/stock/{SYMBOL}/history.
func (c *Client) StockHistory(ctx context.Context, symbol string) ([]service.HistoryPoint, error) {
	var points []normalize.RawHistoryPoint
	if err := c.get(ctx, "/api/stock/"+url.PathEscape(symbol)+"/history", nil, &points); err != nil {
		return nil, err
	}
	return normalize.StockHistory(points), nil
}

// Stats runs GET /api/analytics/stats.
func (c *Client) Stats(ctx context.Context) (*service.Stats, error) {
	var raw normalize.RawStats
	if err := c.get(ctx, "/api/analytics/stats", nil, &raw); err != nil {
		return nil, err
	}
	stats := normalize.Stats(raw)
	return &stats, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do sends one request. Non-2xx responses become *service.StatusError;
// transport and decode failures wrap ErrTransport and ErrMalformed.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	log := c.log.With(
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("path", path),
	)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", service.ErrTransport, ctxErr)
		}
		return fmt.Errorf("%w: %s %s: %w", service.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	log.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &service.StatusError{
			Status: resp.StatusCode,
			Detail: normalize.ErrorDetail(data),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s %s: empty body", service.ErrMalformed, method, path)
		}
		return fmt.Errorf("%w: %s %s: %w", service.ErrMalformed, method, path, err)
	}
	return nil
}
