package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"github.com/couchcryptid/biomass-pathways-api/internal/observability"
)

// Client implements domain.Simulator against the simulator sidecar's HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a simulator client. Per-request deadlines come from the
// caller's context; timeout bounds any single request regardless.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Configure replaces the pathway's pricing and characterization state.
func (c *Client) Configure(ctx context.Context, p domain.Pathway, cfg domain.Configuration) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	u := fmt.Sprintf("%s/pathways/%s/configuration", c.baseURL, url.PathEscape(string(p)))
	return c.do(ctx, http.MethodPut, u, body, "configure", nil)
}

// Simulate runs the pathway at feedKgPerHour with the configuration last set
// by Configure.
func (c *Client) Simulate(ctx context.Context, p domain.Pathway, feedKgPerHour float64) (domain.Result, error) {
	body, err := json.Marshal(simulateRequest{FeedstockKgPerHour: feedKgPerHour})
	if err != nil {
		return domain.Result{}, fmt.Errorf("encode simulate request: %w", err)
	}
	u := fmt.Sprintf("%s/pathways/%s/simulate", c.baseURL, url.PathEscape(string(p)))

	var res domain.Result
	if err := c.do(ctx, http.MethodPost, u, body, "simulate", &res); err != nil {
		return domain.Result{}, err
	}
	return res, nil
}

// CheckReadiness reports whether the sidecar answers its health endpoint.
func (c *Client) CheckReadiness(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("simulator health check: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("simulator health check: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, fullURL string, body []byte, op string, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, fullURL, body, out)
	c.metrics.SimulatorAPIDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.SimulatorRequests.WithLabelValues(op, "error").Inc()
		c.logger.Warn("simulator request failed", "op", op, "error", err)
		return err
	}
	c.metrics.SimulatorRequests.WithLabelValues(op, "success").Inc()
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, fullURL string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("simulator request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError surfaces the sidecar's own message when it sent one.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var e errorResponse
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return errors.New(e.Error)
	}
	return fmt.Errorf("simulator error: status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
}

// Simulator API wire types.

type simulateRequest struct {
	FeedstockKgPerHour float64 `json:"feedstock_kg_per_hr"`
}

type errorResponse struct {
	Error string `json:"error"`
}
