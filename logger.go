package fsentity

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var packageLogger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	packageLogger.Store(&nop)
}

// SetLogger replaces the logger used for operation events.
// The default logger discards everything.
func SetLogger(logger zerolog.Logger) {
	l := logger.With().Str("component", "fsentity").Logger()
	packageLogger.Store(&l)
}

// Logger returns the current package logger
func Logger() *zerolog.Logger {
	return packageLogger.Load()
}

func logOp(op, path string) *zerolog.Event {
	return Logger().Debug().Str("op", op).Str("path", path)
}
