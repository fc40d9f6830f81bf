package application

import "log/slog"

// ResolveLogger falls back to the process default when the module was
// wired without a logger.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
