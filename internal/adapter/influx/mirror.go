package influx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-eto-service/internal/config"
	"github.com/couchcryptid/climate-eto-service/internal/domain"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement is the InfluxDB measurement holding monthly estimates.
const Measurement = "eto_monthly"

// pointWriter is the subset of api.WriteAPIBlocking used by the mirror.
type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Mirror writes one point per available month of each report to InfluxDB.
// It implements pipeline.BatchLoader.
type Mirror struct {
	client influxdb2.Client
	writer pointWriter
	logger *slog.Logger
}

// NewMirror creates a blocking InfluxDB writer for the configured bucket.
func NewMirror(cfg *config.Config, logger *slog.Logger) *Mirror {
	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	return &Mirror{
		client: client,
		writer: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		logger: logger,
	}
}

// LoadBatch writes the points of all reports in one request.
func (m *Mirror) LoadBatch(ctx context.Context, reports []domain.StationReport) error {
	var points []*write.Point
	for i := range reports {
		points = append(points, reportPoints(reports[i])...)
	}
	if len(points) == 0 {
		return nil
	}
	if err := m.writer.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("influx write %d points: %w", len(points), err)
	}
	m.logger.Debug("reports mirrored", "reports", len(reports), "points", len(points))
	return nil
}

func (m *Mirror) Close() error {
	if m.client != nil {
		m.client.Close()
	}
	return nil
}

// reportPoints converts a report into points timestamped at the first day of
// each month of the processing year. Months without radiation or ETo are skipped.
// The report id is a field so that series stay bounded by station and settings.
func reportPoints(r domain.StationReport) []*write.Point {
	tags := map[string]string{
		"country": r.Station.Country,
		"station": r.Station.Name,
		"method":  r.Settings.Method.String(),
		"source":  r.EToSource.String(),
		"unit":    r.Settings.EToUnit.String(),
	}
	year := r.ProcessedAt.Year()

	points := make([]*write.Point, 0, len(r.Months))
	for _, month := range r.Months {
		fields := make(map[string]interface{}, 3)
		if month.ETo != nil {
			fields["eto"] = *month.ETo
		}
		if month.Radiation != nil {
			fields["radiation"] = *month.Radiation
		}
		if len(fields) == 0 {
			continue
		}
		fields["report_id"] = r.ID
		ts := time.Date(year, time.Month(month.Month), 1, 0, 0, 0, 0, time.UTC)
		points = append(points, influxdb2.NewPoint(Measurement, tags, fields, ts))
	}
	return points
}
