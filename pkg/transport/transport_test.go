package transport

import (
	"log/slog"
	"testing"

	"github.com/lmittmann/tint"
)

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(tint.NewHandler(t.Output(), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05",
	}))
}
