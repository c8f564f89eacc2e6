package power

import (
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

	"github.com/cenkalti/backoff/v4"
	"github.com/couchcryptid/climate-eto-service/internal/config"
	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"github.com/couchcryptid/climate-eto-service/internal/observability"
	"github.com/sony/gobreaker"
)

const (
	// community AG reports irradiance in MJ/m²/day, which is the unit the
	// daily series expects for shortwave.
	community = "AG"

	defaultFillValue = -999.0
)

// parameters maps POWER parameter names onto daily series variables.
var parameters = map[string]string{
	"T2M_MIN":           domain.VarTempMin,
	"T2M_MAX":           domain.VarTempMax,
	"RH2M":              domain.VarHumidity,
	"WS2M":              domain.VarWind,
	"ALLSKY_SFC_SW_DWN": domain.VarShortwave,
}

// parameterList is the comma-separated request value, in a fixed order.
const parameterList = "T2M_MIN,T2M_MAX,RH2M,WS2M,ALLSKY_SFC_SW_DWN"

// Client implements domain.DailyProvider using the NASA POWER daily point API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a POWER client from the service configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.PowerTimeout},
		baseURL:    cfg.PowerBaseURL,
		maxRetries: cfg.PowerMaxRetries,
		breaker:    newBreaker(cfg.PowerBreakerFailures, logger),
		metrics:    metrics,
		logger:     logger,
	}
}

func newBreaker(failures int, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "nasa-power",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(failures)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !upstreamFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// FetchDaily requests the window for a point. Requests are retried with
// exponential backoff on transport and 5xx errors; 4xx responses fail at once.
// Repeated failures open the circuit breaker and later calls fail fast.
func (c *Client) FetchDaily(ctx context.Context, latitude, longitude float64, window domain.FetchWindow) (domain.DailySeries, error) {
	start := time.Now()
	defer func() {
		c.metrics.ProviderAPIDuration.Observe(time.Since(start).Seconds())
	}()

	u := c.requestURL(latitude, longitude, window)
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchWithRetry(ctx, u)
	})
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("power fetch %s: %w", window, err)
	}

	series := result.(domain.DailySeries)
	if len(series) == 0 {
		c.metrics.ProviderRequests.WithLabelValues("empty").Inc()
	} else {
		c.metrics.ProviderRequests.WithLabelValues("success").Inc()
	}
	c.logger.Debug("power window fetched", "window", window.String(), "days", len(series))
	return series, nil
}

func (c *Client) requestURL(latitude, longitude float64, window domain.FetchWindow) string {
	params := url.Values{
		"parameters": {parameterList},
		"community":  {community},
		"latitude":   {fmt.Sprintf("%.4f", latitude)},
		"longitude":  {fmt.Sprintf("%.4f", longitude)},
		"start":      {window.Start.Format(domain.DateLayout)},
		"end":        {window.End.Format(domain.DateLayout)},
		"format":     {"JSON"},
	}
	return c.baseURL + "?" + params.Encode()
}

func (c *Client) fetchWithRetry(ctx context.Context, fullURL string) (domain.DailySeries, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	var series domain.DailySeries
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		s, err := c.doRequest(ctx, fullURL)
		if err != nil {
			c.logger.Debug("power request failed", "attempt", attempt, "error", err)
			return err
		}
		series = s
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.maxRetries)), ctx))
	return series, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.DailySeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, fmt.Errorf("power request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		apiErr := &apiError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}
		if apiErr.clientSide() {
			return nil, backoff.Permanent(apiErr)
		}
		return nil, apiErr
	}

	series, err := ParseResponse(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return series, nil
}

// apiError is a non-200 response from the POWER API.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("power API error: status %d: %s", e.status, e.body)
}

// clientSide reports a rejected request rather than an unhealthy service.
func (e *apiError) clientSide() bool {
	return e.status >= 400 && e.status < 500 && e.status != http.StatusTooManyRequests
}

// upstreamFailure reports whether err says something about the health of
// the POWER service. Caller cancellation and rejected requests do not.
func upstreamFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.clientSide() {
		return false
	}
	return true
}

// ParseResponse decodes a POWER daily point JSON document, as returned by the
// API or saved from it, into a daily series.
func ParseResponse(r io.Reader) (domain.DailySeries, error) {
	var powerResp response
	if err := json.NewDecoder(r).Decode(&powerResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return powerResp.series()
}

// POWER API response types.

type response struct {
	Header     header     `json:"header"`
	Properties properties `json:"properties"`
}

type header struct {
	FillValue *float64 `json:"fill_value"`
}

type properties struct {
	Parameter map[string]map[string]float64 `json:"parameter"`
}

var errUnexpectedDate = errors.New("unexpected date key")

// series converts the per-parameter date maps into a daily series, dropping
// fill values and parameters that were not requested.
func (r response) series() (domain.DailySeries, error) {
	fill := defaultFillValue
	if r.Header.FillValue != nil {
		fill = *r.Header.FillValue
	}

	out := make(domain.DailySeries)
	for param, days := range r.Properties.Parameter {
		name, ok := parameters[param]
		if !ok {
			continue
		}
		for date, v := range days {
			if len(date) != len(domain.DateLayout) {
				return nil, fmt.Errorf("%w %q for %s", errUnexpectedDate, date, param)
			}
			if v == fill {
				continue
			}
			vars, ok := out[date]
			if !ok {
				vars = make(map[string]float64, len(parameters))
				out[date] = vars
			}
			vars[name] = v
		}
	}
	return out, nil
}
