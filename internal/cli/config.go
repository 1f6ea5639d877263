package cli

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/observe"
	"github.com/jonwraymond/scicalc/quad"
)

var (
	// ErrInvalidConfig indicates a configuration that failed validation.
	ErrInvalidConfig = errors.New("cli: invalid configuration")

	// ErrUnsupportedConfigFormat indicates a config file extension other
	// than .yaml, .yml or .toml.
	ErrUnsupportedConfigFormat = errors.New("cli: unsupported config file format")
)

var configValidate = validator.New(validator.WithRequiredStructEnabled())

// Config is the file and flag configuration of the command-line front end.
type Config struct {
	Precision uint          `yaml:"precision" toml:"precision" validate:"gte=1,lte=16777216"`
	Rounding  string        `yaml:"rounding" toml:"rounding" validate:"omitempty,oneof=nearest up down zero"`
	Format    string        `yaml:"format" toml:"format" validate:"omitempty,oneof=text json"`
	Digits    int           `yaml:"digits" toml:"digits" validate:"gte=0,lte=1000000"`
	Timeout   time.Duration `yaml:"timeout" toml:"timeout" validate:"gte=0"`
	Quad      QuadConfig    `yaml:"quad" toml:"quad"`
	Observe   ObserveConfig `yaml:"observe" toml:"observe"`
}

// QuadConfig configures the integrators.
type QuadConfig struct {
	Method        string `yaml:"method" toml:"method" validate:"omitempty,oneof=gauss-legendre tanh-sinh gl ts"`
	MaxDegree     int    `yaml:"max_degree" toml:"max_degree" validate:"gte=0,lte=30"`
	CacheCapacity int    `yaml:"cache_capacity" toml:"cache_capacity" validate:"gte=0"`
	Concurrency   int    `yaml:"concurrency" toml:"concurrency" validate:"gte=0,lte=1024"`
}

// ObserveConfig configures telemetry.
type ObserveConfig struct {
	ServiceName string        `yaml:"service_name" toml:"service_name"`
	Tracing     TracingConfig `yaml:"tracing" toml:"tracing"`
	Metrics     MetricsConfig `yaml:"metrics" toml:"metrics"`
	Logging     LoggingConfig `yaml:"logging" toml:"logging"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled   bool    `yaml:"enabled" toml:"enabled"`
	Exporter  string  `yaml:"exporter" toml:"exporter" validate:"omitempty,oneof=otlp stdout none"`
	SamplePct float64 `yaml:"sample_pct" toml:"sample_pct" validate:"gte=0,lte=1"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Exporter string `yaml:"exporter" toml:"exporter" validate:"omitempty,oneof=otlp prometheus stdout none"`
}

// LoggingConfig configures the structured log on stderr.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Level   string `yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Precision: 64,
		Rounding:  "nearest",
		Format:    "text",
		Quad:      QuadConfig{Method: "gauss-legendre"},
		Observe: ObserveConfig{
			ServiceName: "scicalc",
			Tracing:     TracingConfig{Exporter: "stdout", SamplePct: 1},
			Metrics:     MetricsConfig{Exporter: "stdout"},
			Logging:     LoggingConfig{Level: "info"},
		},
	}
}

// LoadConfig reads a YAML or TOML file, chosen by extension, over the
// defaults. ${VAR} references are expanded from the environment first.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	text, err := expandEnvStrict(string(raw))
	if err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	case ".toml":
		if _, err := toml.Decode(text, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, ext)
	}

	return cfg, cfg.Validate()
}

// Validate checks the struct tags of c.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Arith returns the precision configuration.
func (c Config) Arith() (arith.Config, error) {
	r, err := arith.ParseRounding(c.Rounding)
	if err != nil {
		return arith.Config{}, err
	}
	mc := arith.Config{Bits: c.Precision, Rounding: r}
	return mc, mc.Validate()
}

// DisplayDigits is the number of significant digits results are printed
// with: Digits when set, otherwise enough to show every bit.
func (c Config) DisplayDigits() int {
	if c.Digits > 0 {
		return c.Digits
	}
	return int(math.Ceil(float64(c.Precision) * math.Log10(2)))
}

// Method returns the configured quadrature method.
func (c Config) Method() (quad.Method, error) {
	if c.Quad.Method == "" {
		return quad.MethodGaussLegendre, nil
	}
	return quad.ParseMethod(c.Quad.Method)
}

// ObserveEnabled reports whether any telemetry is switched on.
func (c Config) ObserveEnabled() bool {
	o := c.Observe
	return o.Tracing.Enabled || o.Metrics.Enabled || o.Logging.Enabled
}

// observeConfig converts the telemetry section for observe.NewObserver.
func (c Config) observeConfig() observe.Config {
	o := c.Observe
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     Version,
		Tracing: observe.TracingConfig{
			Enabled:   o.Tracing.Enabled,
			Exporter:  o.Tracing.Exporter,
			SamplePct: o.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.Metrics.Enabled,
			Exporter: o.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: o.Logging.Enabled,
			Level:   o.Logging.Level,
		},
	}
}
