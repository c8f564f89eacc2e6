package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"github.com/couchcryptid/climate-eto-service/internal/observability"
)

// TeeLoader loads into a primary destination and then copies the batch to a
// mirror. Only primary failures are returned; mirror failures are logged and
// counted.
type TeeLoader struct {
	primary BatchLoader
	mirror  BatchLoader
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTeeLoader creates a TeeLoader.
func NewTeeLoader(primary, mirror BatchLoader, metrics *observability.Metrics, logger *slog.Logger) *TeeLoader {
	return &TeeLoader{primary: primary, mirror: mirror, metrics: metrics, logger: logger}
}

func (l *TeeLoader) LoadBatch(ctx context.Context, reports []domain.StationReport) error {
	if err := l.primary.LoadBatch(ctx, reports); err != nil {
		return err
	}
	if err := l.mirror.LoadBatch(ctx, reports); err != nil {
		l.metrics.MirrorErrors.Inc()
		l.logger.Warn("mirror load failed", "error", err, "batch_size", len(reports))
	}
	return nil
}
