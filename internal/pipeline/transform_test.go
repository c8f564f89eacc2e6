package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"github.com/couchcryptid/climate-eto-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves canned series per window and records the windows asked for.
type fakeProvider struct {
	mu      sync.Mutex
	windows []string
	series  map[string]domain.DailySeries
	err     error
	block   bool
}

func (f *fakeProvider) FetchDaily(ctx context.Context, _, _ float64, w domain.FetchWindow) (domain.DailySeries, error) {
	f.mu.Lock()
	f.windows = append(f.windows, w.String())
	f.mu.Unlock()

	if f.block {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return nil, errors.New("fetch was not cancelled")
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.series[w.String()], nil
}

func (f *fakeProvider) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.windows...)
	sort.Strings(out)
	return out
}

func freezeClock(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })
	return now
}

func testStation() domain.StationInfo {
	return domain.StationInfo{
		Country:             "Colombia",
		Name:                "Villavicencio",
		Altitude:            100,
		Latitude:            4.6,
		LatitudeHemisphere:  domain.North,
		Longitude:           74.1,
		LongitudeHemisphere: domain.West,
	}
}

func encodeRequest(t *testing.T, req domain.ClimateRequest) domain.RawEvent {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return domain.RawEvent{Key: []byte(req.ID), Value: data}
}

var temperatureOnly = &domain.Settings{Method: domain.MethodTemperatureOnly}

func TestClimateTransformer_Monthly(t *testing.T) {
	freezeClock(t)
	monthly := make([]map[string]string, domain.MonthsPerYear)
	monthly[0] = map[string]string{"temp_min": "12.8", "temp_max": "27"}
	monthly[1] = map[string]string{"temp_min": "-95"}

	metrics := newTestMetrics()
	tfm := pipeline.NewTransformer(nil, domain.Settings{}, metrics, slog.Default())
	report, err := tfm.Transform(context.Background(), encodeRequest(t, domain.ClimateRequest{
		ID:       "req-monthly",
		Station:  testStation(),
		Settings: temperatureOnly,
		Monthly:  monthly,
	}))
	require.NoError(t, err)

	assert.Equal(t, domain.ReportID("req-monthly", testStation()), report.ID)
	assert.InDelta(t, 4.5714, *report.Months[0].ETo, 1e-3)
	assert.Equal(t, 1, report.Available())
	require.Len(t, report.Rejections, 1)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MonthsComputed.WithLabelValues("temperature-only", "formula", "available")), 0)
	assert.InDelta(t, 11, testutil.ToFloat64(metrics.MonthsComputed.WithLabelValues("temperature-only", "formula", "unavailable")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ValidationRejections.WithLabelValues("temp_min")), 0)
}

func TestClimateTransformer_FetchByYear(t *testing.T) {
	freezeClock(t)
	provider := &fakeProvider{series: map[string]domain.DailySeries{
		"20221201-20221231": {"20221215": {domain.VarTempMin: 20, domain.VarTempMax: 30}},
		"20230101-20230131": {"20230110": {domain.VarTempMin: 99, domain.VarTempMax: 99}},
	}}
	tfm := pipeline.NewTransformer(provider, domain.Settings{}, newTestMetrics(), slog.Default())

	report, err := tfm.Transform(context.Background(), encodeRequest(t, domain.ClimateRequest{
		ID:       "req-fetch",
		Station:  testStation(),
		Settings: temperatureOnly,
		Daily:    domain.DailySeries{"20230110": {domain.VarTempMin: 12.8, domain.VarTempMax: 27}},
		Fetch:    &domain.FetchRange{Start: "20221201", End: "20230131"},
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"20221201-20221231", "20230101-20230131"}, provider.requested())
	assert.InDelta(t, 4.5714, *report.Months[0].ETo, 1e-3, "inline data wins over fetched data")
	assert.NotNil(t, report.Months[11].ETo)
	assert.Equal(t, 2, report.Available())
}

func TestClimateTransformer_ProviderFailureDegrades(t *testing.T) {
	freezeClock(t)
	provider := &fakeProvider{err: errors.New("power unavailable")}
	tfm := pipeline.NewTransformer(provider, domain.Settings{}, newTestMetrics(), slog.Default())

	report, err := tfm.Transform(context.Background(), encodeRequest(t, domain.ClimateRequest{
		ID:       "req-degraded",
		Station:  testStation(),
		Settings: temperatureOnly,
		Daily:    domain.DailySeries{"20230110": {domain.VarTempMin: 12.8, domain.VarTempMax: 27}},
		Fetch:    &domain.FetchRange{Start: "20230101", End: "20231231"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Available())
}

func TestClimateTransformer_NoProvider(t *testing.T) {
	freezeClock(t)
	tfm := pipeline.NewTransformer(nil, domain.Settings{}, newTestMetrics(), slog.Default())

	report, err := tfm.Transform(context.Background(), encodeRequest(t, domain.ClimateRequest{
		ID:      "req-nofetch",
		Station: testStation(),
		Fetch:   &domain.FetchRange{Start: "20230101", End: "20231231"},
	}))
	require.NoError(t, err)
	assert.Zero(t, report.Available())
	assert.Len(t, report.Months, domain.MonthsPerYear)
}

func TestClimateTransformer_InvalidStationCancelsFetch(t *testing.T) {
	station := testStation()
	station.Latitude = 95
	provider := &fakeProvider{block: true}
	tfm := pipeline.NewTransformer(provider, domain.Settings{}, newTestMetrics(), slog.Default())

	start := time.Now()
	_, err := tfm.Transform(context.Background(), encodeRequest(t, domain.ClimateRequest{
		ID:      "req-bad-station",
		Station: station,
		Fetch:   &domain.FetchRange{Start: "20230101", End: "20231231"},
	}))

	require.ErrorIs(t, err, domain.ErrInvalidStation)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestClimateTransformer_InvalidMessage(t *testing.T) {
	tfm := pipeline.NewTransformer(nil, domain.Settings{}, newTestMetrics(), slog.Default())

	_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("not-json{{{")})
	require.Error(t, err)

	_, err = tfm.Transform(context.Background(), encodeRequest(t, domain.ClimateRequest{ID: "empty", Station: testStation()}))
	require.ErrorIs(t, err, domain.ErrNoDataOrigin)
}
