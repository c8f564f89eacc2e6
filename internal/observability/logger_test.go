package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/climate-eto-service/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"verbose", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: "text"})

			assert.True(t, logger.Enabled(context.Background(), tt.enabled))
			assert.False(t, logger.Enabled(context.Background(), tt.muted))
			assert.Same(t, logger, slog.Default())
		})
	}
}
