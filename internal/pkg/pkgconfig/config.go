package pkgconfig

import (
	"io"
	"time"
)

// Config is the read-only view of application configuration.
type Config interface {
	io.Closer

	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	GetDuration(key string) time.Duration
	GetArray(key string) []string
}

// IntOr returns the value for key, or def when the value is not positive.
func IntOr(cfg Config, key string, def int) int {
	if v := cfg.GetInt(key); v > 0 {
		return int(v)
	}
	return def
}

// DurationOr returns the value for key, or def when the value is not positive.
func DurationOr(cfg Config, key string, def time.Duration) time.Duration {
	if v := cfg.GetDuration(key); v > 0 {
		return v
	}
	return def
}
