package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/couchcryptid/climate-eto-service/internal/adapter/http"
	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, domain.Settings{}, slog.Default())
}

func get(srv http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(fmt.Errorf("not ready yet")), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestResolutionEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		required []domain.Field
		absent   domain.Field
	}{
		{
			name:     "defaults",
			query:    "",
			required: []domain.Field{domain.FieldTempMin, domain.FieldTempMax, domain.FieldHumidity, domain.FieldWind, domain.FieldSunshine},
			absent:   domain.FieldTempAvg,
		},
		{
			name:     "temperature only average",
			query:    "?method=temperature-only&temperature_mode=average",
			required: []domain.Field{domain.FieldTempAvg},
			absent:   domain.FieldHumidity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newTestServer(nil), "/v1/resolution"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var res domain.Resolution
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.ElementsMatch(t, tt.required, res.RequiredFields)
			_, ok := res.Rule(tt.absent)
			assert.False(t, ok)
		})
	}
}

func TestResolutionEndpoint_Units(t *testing.T) {
	rec := get(newTestServer(nil), "/v1/resolution?humidity_unit=vapor-pressure-kpa&wind_unit=km/day")
	require.Equal(t, http.StatusOK, rec.Code)

	var res domain.Resolution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "kPa", res.UnitLabels[domain.FieldHumidity])
	assert.Equal(t, "km/day", res.UnitLabels[domain.FieldWind])
	assert.Equal(t, domain.HumidityVaporPressureKPa, res.Settings.HumidityUnit)
}

func TestResolutionEndpoint_InvalidAxis(t *testing.T) {
	rec := get(newTestServer(nil), "/v1/resolution?wind_unit=knots")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "wind_unit")
}
