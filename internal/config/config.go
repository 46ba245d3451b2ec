package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Analyze   AnalyzeConfig   `yaml:"analyze" mapstructure:"analyze"`
	Bootstrap BootstrapConfig `yaml:"bootstrap" mapstructure:"bootstrap"`
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
	Sheets    SheetsConfig    `yaml:"sheets" mapstructure:"sheets"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// OutputConfig configures where report runs are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// AnalyzeConfig configures the analyze batch.
type AnalyzeConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// BootstrapConfig configures the comparator's resampling.
type BootstrapConfig struct {
	Resamples   int     `yaml:"resamples" mapstructure:"resamples"`
	Confidence  float64 `yaml:"confidence" mapstructure:"confidence"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
	Seed        int64   `yaml:"seed" mapstructure:"seed"`
}

// SourcesConfig points at an optional registry override file.
type SourcesConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// SheetsConfig holds the field-log spreadsheet settings.
type SheetsConfig struct {
	SpreadsheetID     string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	CredentialsFile   string `yaml:"credentials_file" mapstructure:"credentials_file"`
	ObservationsSheet string `yaml:"observations_sheet" mapstructure:"observations_sheet"`
	MergedSheet       string `yaml:"merged_sheet" mapstructure:"merged_sheet"`
}

// ServerConfig configures the upload server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AIRVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("output.dir", "reports")
	v.SetDefault("analyze.concurrency", 4)
	v.SetDefault("bootstrap.resamples", 1000)
	v.SetDefault("bootstrap.confidence", 0.95)
	v.SetDefault("bootstrap.concurrency", 4)
	v.SetDefault("sheets.observations_sheet", "Observations")
	v.SetDefault("sheets.merged_sheet", "Merged Records")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
