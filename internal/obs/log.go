// Package obs centralizes structured logging, mirroring how the pack's
// query-optimizer code (other_examples) calls zap.S().Infow(...) rather
// than hand-rolling a logger interface. Every package in this module logs
// through L() instead of importing zap directly, so a host process can
// swap the global logger (SetLogger) once at startup.
package obs

import "go.uber.org/zap"

var logger = zap.NewNop().Sugar()

// SetLogger installs the process-wide logger. Call once at startup; the
// zero value is a no-op logger so the library is silent by default.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		logger = l
	}
}

// L returns the current sugared logger for structured key/value logging,
// e.g. obs.L().Debugw("left join removed", "alias", alias, "table", table).
func L() *zap.SugaredLogger {
	return logger
}
