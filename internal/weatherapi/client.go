// Package weatherapi is a thin client for a weatherapi.com compatible provider.
// It performs no caching and no retries: every call is a single HTTP request.
package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-geo-weather/app/observability/metrics"
	"github.com/FACorreiaa/go-geo-weather/internal/types"
)

const (
	DefaultBaseURL = "http://api.weatherapi.com/v1"

	// hour=25 makes the provider omit the hourly breakdown.
	noHourlyDetail = "25"
)

// Client talks to the provider's search, current and forecast endpoints.
type Client struct {
	key        string
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.AppMetrics
	logger     *slog.Logger
}

// NewClient creates a provider client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, key string, timeout time.Duration, m *metrics.AppMetrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		key:     key,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: m,
		logger:  logger,
	}
}

// Search returns the provider's candidates for a free-text city name, in
// provider order.
func (c *Client) Search(ctx context.Context, query string) ([]types.Location, error) {
	body, err := c.get(ctx, "search", url.Values{"q": {query}})
	if err != nil {
		return nil, err
	}

	var locations []types.Location
	if err := json.Unmarshal(body, &locations); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", types.ErrProviderIO, err)
	}
	return locations, nil
}

// Current returns the raw current-weather payload for a provider location id.
func (c *Client) Current(ctx context.Context, locationID int64) (json.RawMessage, error) {
	return c.getRaw(ctx, "current", url.Values{"q": {locationQuery(locationID)}})
}

// Forecast returns the raw forecast payload for a provider location id,
// without hourly detail.
func (c *Client) Forecast(ctx context.Context, locationID int64, days int) (json.RawMessage, error) {
	return c.getRaw(ctx, "forecast", url.Values{
		"q":    {locationQuery(locationID)},
		"days": {strconv.Itoa(days)},
		"hour": {noHourlyDetail},
	})
}

func locationQuery(id int64) string {
	return "id:" + strconv.FormatInt(id, 10)
}

func (c *Client) getRaw(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s response is not valid JSON", types.ErrProviderIO, endpoint)
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	ctx, span := otel.Tracer("WeatherAPIClient").Start(ctx, endpoint, trace.WithAttributes(
		attribute.String("weatherapi.endpoint", endpoint),
		attribute.String("weatherapi.q", params.Get("q")),
	))
	defer span.End()

	l := c.logger.With(slog.String("method", "get"), slog.String("endpoint", endpoint))
	start := time.Now()

	body, err := c.do(ctx, endpoint, params)
	outcome := outcomeOf(err)
	c.metrics.RecordProviderCall(ctx, endpoint, outcome, time.Since(start))

	if err != nil {
		l.WarnContext(ctx, "Weather provider call failed", slog.String("outcome", outcome), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}

	l.DebugContext(ctx, "Weather provider call succeeded", slog.Duration("latency", time.Since(start)))
	span.SetStatus(codes.Ok, "ok")
	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("key", c.key)
	fullURL := fmt.Sprintf("%s/%s.json?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", types.ErrProviderIO, withoutURL(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", types.ErrProviderIO, endpoint, err)
	}

	if err := classifyStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", types.ErrProviderKeyDisabled, status)
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", types.ErrProviderKeyInvalid, status)
	case status == http.StatusRequestTimeout:
		return fmt.Errorf("%w: status %d", types.ErrProviderTimeout, status)
	case status < 200 || status > 299:
		return fmt.Errorf("%w: status %d: %s", types.ErrProviderIO, status, providerMessage(body))
	}
	return nil
}

// providerMessage extracts {"error":{"message":...}} when present.
func providerMessage(body []byte) string {
	var e struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// withoutURL drops the request URL from a *url.Error. The URL carries the API
// key in its query string and must not reach logs or response bodies.
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func classifyTransportError(endpoint string, err error) error {
	err = withoutURL(err)
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return fmt.Errorf("%w: %s: %v", types.ErrProviderUnavailable, endpoint, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", types.ErrProviderTimeout, endpoint, err)
	}
	return fmt.Errorf("%w: %s request: %v", types.ErrProviderIO, endpoint, err)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, types.ErrProviderKeyDisabled):
		return "key_disabled"
	case errors.Is(err, types.ErrProviderKeyInvalid):
		return "key_invalid"
	case errors.Is(err, types.ErrProviderTimeout):
		return "timeout"
	case errors.Is(err, types.ErrProviderUnavailable):
		return "unavailable"
	default:
		return "io_error"
	}
}
