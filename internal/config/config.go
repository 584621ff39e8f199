package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/benchwrap/benchwrap/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Run        RunConfig                  `mapstructure:"run"`
	Benchmarks map[string]BenchmarkConfig `mapstructure:"benchmarks"`
	Collector  CollectorConfig            `mapstructure:"collector"`
	Export     ExportConfig               `mapstructure:"export"`
	Metrics    MetricsConfig              `mapstructure:"metrics"`
}

// RunConfig identifies the overall wrapper invocation.
type RunConfig struct {
	UUID   string `mapstructure:"uuid"`
	User   string `mapstructure:"user"`
	Labels string `mapstructure:"labels"` // key1=value1,key2=value2
}

// BenchmarkConfig holds per-tool settings, keyed by tool name.
type BenchmarkConfig struct {
	Samples int            `mapstructure:"samples"`
	Retries int            `mapstructure:"retries"`
	Timeout time.Duration  `mapstructure:"timeout"`
	Params  map[string]any `mapstructure:"params"`
}

type CollectorConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	Name    string         `mapstructure:"name"`
	Params  map[string]any `mapstructure:"params"`
}

type ExportConfig struct {
	Type string     `mapstructure:"type"` // "localfs", "s3" or "http"
	Path string     `mapstructure:"path"` // For localfs
	S3   S3Config   `mapstructure:"s3"`   // For S3
	HTTP HTTPConfig `mapstructure:"http"` // For http
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type HTTPConfig struct {
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

// MetricsConfig holds the run-time metrics listener configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Run: RunConfig{
			User: os.Getenv("USER"),
		},
		Benchmarks: map[string]BenchmarkConfig{},
		Export: ExportConfig{
			Type: "localfs",
			Path: "benchwrap-results",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9200",
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Export.Type {
	case "localfs":
		if c.Export.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("export path required when type is localfs"))
		}
	case "s3":
		if c.Export.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when export type is s3"))
		}
	case "http":
		if c.Export.HTTP.URL == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("http url required when export type is http"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown export type %q", c.Export.Type))
	}

	if c.Collector.Enabled && c.Collector.Name == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("collector name required when collector is enabled"))
	}

	for name, bench := range c.Benchmarks {
		if bench.Samples < 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("benchmark %s: samples cannot be negative, got %d", name, bench.Samples))
		}
		if bench.Retries < 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("benchmark %s: retries cannot be negative, got %d", name, bench.Retries))
		}
	}

	if _, err := ParseLabels(c.Run.Labels); err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}

	return nil
}

// ParseLabels parses "key1=value1,key2=value2" into a label map. An empty
// string yields an empty map.
func ParseLabels(raw string) (core.Labels, error) {
	labels := make(core.Labels)
	if strings.TrimSpace(raw) == "" {
		return labels, nil
	}

	for _, pair := range strings.Split(strings.TrimSpace(raw), ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid label %q, want key=value,key=value,...", pair)
		}
		labels[key] = value
	}
	return labels, nil
}
