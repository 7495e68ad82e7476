// Package logging builds the application's hclog loggers.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/xvierd/pomo/internal/config"
)

// Name is the root logger name.
const Name = "pomo"

// New returns the root logger configured from cfg. Output goes to w, or
// stderr when w is nil.
func New(cfg config.LogConfig, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       Name,
		Level:      level,
		Output:     w,
		JSONFormat: cfg.JSON,
	})
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
