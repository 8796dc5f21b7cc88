package output

import "time"

// ConfigPort reads runtime configuration. The typed getters fall back
// to the given default when the key is missing or unparseable.
type ConfigPort interface {
	Get(key string) string
	MustGet(key string) string
	GetWithDefault(key, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
	GetInt(key string, defaultValue int) int
	GetFloat(key string, defaultValue float64) float64
	GetDuration(key string, defaultValue time.Duration) time.Duration
}
