// Package config loads and validates application configuration from
// defaults, an optional YAML file and environment variables, in that
// order of precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"xlvalidator/internal/timeseries"
	"xlvalidator/internal/workbook"
)

// envPrefix namespaces the environment variables, e.g. XLV_ENGINE_DATE_COLUMN
const envPrefix = "XLV"

// Config is the complete application configuration
type Config struct {
	Engine    EngineConfig    `yaml:"engine" envconfig:"ENGINE"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// EngineConfig is the validation engine's configuration surface. Row
// fields are 1-based as presented to users; accessor methods convert
// to the zero-based indices the engine works in.
type EngineConfig struct {
	RowsToValidate     string `yaml:"rows_to_validate" envconfig:"ROWS_TO_VALIDATE" validate:"required"`
	DateColumn         string `yaml:"date_column" envconfig:"DATE_COLUMN" validate:"required,collabel"`
	TimeColumn         string `yaml:"time_column" envconfig:"TIME_COLUMN" validate:"required,collabel"`
	DateTimeStartRow   int    `yaml:"datetime_start_row" envconfig:"DATETIME_START_ROW" validate:"min=1"`
	NumericStartRow    int    `yaml:"numeric_start_row" envconfig:"NUMERIC_START_ROW" validate:"min=1"`
	NumericStartColumn string `yaml:"numeric_start_column" envconfig:"NUMERIC_START_COLUMN" validate:"required,collabel"`
	GapStartRow        int    `yaml:"gap_start_row" envconfig:"GAP_START_ROW" validate:"min=1"`
	GapIntervalUnit    string `yaml:"gap_interval_unit" envconfig:"GAP_INTERVAL_UNIT" validate:"omitempty,oneof=minutes seconds hours"`
	GapIntervalValue   int    `yaml:"gap_interval_value" envconfig:"GAP_INTERVAL_VALUE" validate:"min=0"`
}

// ExportConfig configures the per-sensor CSV export artifact
type ExportConfig struct {
	DataStartRow int    `yaml:"data_start_row" envconfig:"DATA_START_ROW" validate:"min=1"`
	AssetRow     int    `yaml:"asset_row" envconfig:"ASSET_ROW" validate:"min=1"`
	HierarchyRow int    `yaml:"hierarchy_row" envconfig:"HIERARCHY_ROW" validate:"min=1"`
	OutputDir    string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains OpenTelemetry configuration. Metrics go
// out through the Prometheus exporter on the server's /metrics route;
// traces go to the configured exporter when tracing is enabled.
type TelemetryConfig struct {
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"min=1"`
}

// Default returns the built-in configuration, mirroring the historical
// defaults of the validation workflow (header rows 5-7 compared, data
// region from row 8/9, column C onward).
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			RowsToValidate:     "5,6,7",
			DateColumn:         "A",
			TimeColumn:         "B",
			DateTimeStartRow:   8,
			NumericStartRow:    9,
			NumericStartColumn: "C",
			GapStartRow:        7,
		},
		Export: ExportConfig{
			DataStartRow: 8,
			AssetRow:     7,
			HierarchyRow: 8,
			OutputDir:    "exports",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/xlvalidator.log",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxUploadBytes:  64 << 20,
		},
		Telemetry: TelemetryConfig{
			EnableMetrics: true,
			EnableTracing: false,
			TraceExporter: "stdout",
			SampleRatio:   1.0,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (when non-empty), then environment variables. The result is validated
// before anything else runs; invalid configuration fails fast.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, including that every configured
// column label parses and the rows-to-validate expression is sound.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("collabel", func(fl validator.FieldLevel) bool {
		_, err := workbook.LabelToIndex(fl.Field().String())
		return err == nil
	}); err != nil {
		return fmt.Errorf("failed to register label validation: %w", err)
	}

	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, _, err := c.Engine.Rows(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Rows parses the rows-to-validate expression: either the literal
// "all", or comma-separated 1-based row numbers returned as zero-based
// indices.
func (e EngineConfig) Rows() (rows []int, all bool, err error) {
	expr := strings.TrimSpace(strings.ToLower(e.RowsToValidate))
	if expr == "all" {
		return nil, true, nil
	}
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, false, fmt.Errorf("invalid row number %q in rows_to_validate", part)
		}
		rows = append(rows, n-1)
	}
	if len(rows) == 0 {
		return nil, false, fmt.Errorf("rows_to_validate is empty")
	}
	return rows, false, nil
}

// CheckColumns verifies that every configured column label parses.
// Engine entry points call this so a config assembled by hand, without
// going through Load, still fails fast instead of silently reading
// column A.
func (e EngineConfig) CheckColumns() error {
	for _, col := range []struct{ field, label string }{
		{"date_column", e.DateColumn},
		{"time_column", e.TimeColumn},
		{"numeric_start_column", e.NumericStartColumn},
	} {
		if _, err := workbook.LabelToIndex(col.label); err != nil {
			return fmt.Errorf("invalid %s: %w", col.field, err)
		}
	}
	return nil
}

// DateColumnIndex returns the zero-based date column index
func (e EngineConfig) DateColumnIndex() int {
	return mustLabelIndex(e.DateColumn)
}

// TimeColumnIndex returns the zero-based time column index
func (e EngineConfig) TimeColumnIndex() int {
	return mustLabelIndex(e.TimeColumn)
}

// NumericStartColumnIndex returns the zero-based first numeric column
func (e EngineConfig) NumericStartColumnIndex() int {
	return mustLabelIndex(e.NumericStartColumn)
}

// GapOverride returns the configured interval override, or nil when
// the detected interval should be used.
func (e EngineConfig) GapOverride() *timeseries.IntervalOverride {
	if e.GapIntervalUnit == "" || e.GapIntervalValue <= 0 {
		return nil
	}
	return &timeseries.IntervalOverride{
		Unit:  timeseries.IntervalUnit(e.GapIntervalUnit),
		Value: e.GapIntervalValue,
	}
}

// mustLabelIndex assumes the label passed Validate; the zero column is
// the safe fallback for a label that somehow did not.
func mustLabelIndex(label string) int {
	idx, err := workbook.LabelToIndex(label)
	if err != nil {
		return 0
	}
	return idx
}
