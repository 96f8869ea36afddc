package ai

import "sync/atomic"

// debugLoggingEnabled guards per-tick AI debug logs. Checking an atomic is
// cheaper than asking the slog handler on every enemy tick.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging toggles AI debug logs. Called from main after the log
// level is known.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether AI debug logs are on:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("enemy chasing", "enemy", id, "distance", d)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
