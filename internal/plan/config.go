package plan

import "log/slog"

// Config holds configuration for one planner run.
type Config struct {
	// Logger receives stage boundaries and inferred facts at debug level.
	// Nil discards everything.
	Logger *slog.Logger
	// MaxSuggestions caps the "did you mean" names attached to lookup errors.
	MaxSuggestions int
}

// DefaultConfig returns the default planner configuration.
func DefaultConfig() Config {
	return Config{
		MaxSuggestions: 3,
	}
}
