package rowgroup

import (
	"fmt"
	"os"
	"strconv"
)

// EngineConfig tunes the group-by planner and carries logging and metrics
// settings. It carries no connection/transaction settings — those belong to
// the external loaders in internal/ingest. Of its fields, only GroupBy is
// consulted by the read path.
type EngineConfig struct {
	GroupBy GroupByConfig `json:"groupBy"`
	Logging LoggingConfig `json:"logging"`
	Metrics MetricsConfig `json:"metrics"`
}

// GroupByConfig controls kernel selection (§4.3, §9 design notes).
type GroupByConfig struct {
	// AllRLECardinalityCeiling bounds the Cartesian product the all-RLE
	// kernel (§4.4) is willing to enumerate, resolving the original
	// design's open question ("source currently does not [gate]; this is
	// an open question") in favor of gating. When the product of per-column
	// encoded-id counts exceeds this, the planner falls back to the kernel
	// the grouping-column count selects (single-column, packed-key or
	// vector-key) instead.
	AllRLECardinalityCeiling int64 `json:"allRleCardinalityCeiling"`
}

// LoggingConfig mirrors the logging knobs the original module exposed,
// scoped down to what a read-only in-memory engine can usefully log.
type LoggingConfig struct {
	Level          string `json:"level"`
	LogSlowQueries bool   `json:"logSlowQueries"`
}

// MetricsConfig holds metrics settings. The emitters in telemetry.go do not
// read it: measurements always go to the registered emitter.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
}

// DefaultEngineConfig returns the default tuning, mirroring the original
// module's DefaultConfig() pattern.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		GroupBy: GroupByConfig{
			AllRLECardinalityCeiling: 1_000_000,
		},
		Logging: LoggingConfig{
			Level:          "info",
			LogSlowQueries: true,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "rowgroup",
		},
	}
}

// EngineConfigFromEnv overlays environment variables onto DefaultEngineConfig,
// in the same getenv-with-fallback style the original module's cmd/benchmark
// driver used.
func EngineConfigFromEnv() *EngineConfig {
	cfg := DefaultEngineConfig()
	if v := os.Getenv("ROWGROUP_ALL_RLE_CARDINALITY_CEILING"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.GroupBy.AllRLECardinalityCeiling = n
		}
	}
	if v := os.Getenv("ROWGROUP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ROWGROUP_METRICS_NAMESPACE"); v != "" {
		cfg.Metrics.Namespace = v
	}
	return cfg
}

// Validate checks the configuration for internally-inconsistent values.
func (c *EngineConfig) Validate() error {
	if c.GroupBy.AllRLECardinalityCeiling <= 0 {
		return &ConfigError{Field: "groupBy.allRleCardinalityCeiling", Message: "must be greater than 0"}
	}
	return nil
}

// ConfigError represents a configuration validation error, adapted from the
// original module's ConfigError.
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config validation error for field '%s': %s", e.Field, e.Message)
}
