package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide logger. Production deployments set
// LOG_FORMAT=json for the log pipeline; anything else gets the
// human-readable text handler. Every record carries the service name so
// bazario and worker logs stay distinguishable downstream.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "bazario"))
}
