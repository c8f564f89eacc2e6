package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"github.com/couchcryptid/climate-eto-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// ClimateTransformer implements Transformer by running the ETo engine over a
// request, fetching daily data from an optional provider first.
type ClimateTransformer struct {
	provider domain.DailyProvider
	defaults domain.Settings
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewTransformer creates a ClimateTransformer. Pass a nil provider to disable
// fetching; requests with a fetch window then use their inline data only.
func NewTransformer(provider domain.DailyProvider, defaults domain.Settings, metrics *observability.Metrics, logger *slog.Logger) *ClimateTransformer {
	return &ClimateTransformer{
		provider: provider,
		defaults: defaults,
		metrics:  metrics,
		logger:   logger,
	}
}

func (t *ClimateTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.StationReport, error) {
	req, err := domain.ParseRequest(raw)
	if err != nil {
		return domain.StationReport{}, err
	}
	settings := req.EffectiveSettings(t.defaults)

	// Station checks and the provider fetch run together; an invalid station
	// cancels the fetch.
	var fetched []domain.DailySeries
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return domain.ValidateStation(req.Station, domain.Resolve(settings))
	})
	if window, ok := req.Window(); ok {
		g.Go(func() error {
			fetched = t.fetch(gctx, req, window)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.StationReport{}, fmt.Errorf("request %s: %w: %w", req.ID, domain.ErrInvalidStation, err)
	}

	daily := req.Daily
	for _, part := range fetched {
		daily = daily.Merge(part)
	}

	report, err := domain.BuildReport(req, t.defaults, daily)
	if err != nil {
		return domain.StationReport{}, err
	}
	t.record(report)
	return report, nil
}

// fetch requests each calendar year of the window concurrently. A failed year
// is logged and left out so the report is built from whatever data arrived.
func (t *ClimateTransformer) fetch(ctx context.Context, req domain.ClimateRequest, window domain.FetchWindow) []domain.DailySeries {
	if t.provider == nil {
		t.logger.Warn("fetch window ignored, daily provider disabled",
			"request_id", req.ID, "window", window.String())
		return nil
	}

	lat := req.Station.SignedLatitude()
	lon := req.Station.SignedLongitude()
	years := window.SplitByYear()
	parts := make([]domain.DailySeries, len(years))

	var g errgroup.Group
	for i, year := range years {
		g.Go(func() error {
			series, err := t.provider.FetchDaily(ctx, lat, lon, year)
			if err != nil {
				t.logger.Warn("daily fetch failed, continuing without it",
					"error", err,
					"request_id", req.ID,
					"window", year.String(),
				)
				return nil
			}
			parts[i] = series
			return nil
		})
	}
	_ = g.Wait()
	return parts
}

func (t *ClimateTransformer) record(report domain.StationReport) {
	method := report.Settings.Method.String()
	source := report.EToSource.String()
	for _, m := range report.Months {
		outcome := "unavailable"
		if m.ETo != nil {
			outcome = "available"
		}
		t.metrics.MonthsComputed.WithLabelValues(method, source, outcome).Inc()
	}
	for _, rej := range report.Rejections {
		t.metrics.ValidationRejections.WithLabelValues(rej.Field.String()).Inc()
	}
	t.logger.Debug("report built",
		"request_id", report.RequestID,
		"report_id", report.ID,
		"available_months", report.Available(),
		"rejections", len(report.Rejections),
	)
}
