// Package config defines the application configuration and its viper
// bindings. Values come from the config file, XANOVIZ_* environment
// variables and command-line flags, in increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of the application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Xano    XanoConfig    `mapstructure:"xano" yaml:"xano"`
	Deploy  DeployConfig  `mapstructure:"deploy" yaml:"deploy"`
	Preview PreviewConfig `mapstructure:"preview" yaml:"preview"`
	Layout  LayoutConfig  `mapstructure:"layout" yaml:"layout"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// XanoConfig holds the metadata API connection settings.
type XanoConfig struct {
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	Token        string        `mapstructure:"token" yaml:"token"`
	RateLimit    float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PageSize     int           `mapstructure:"page_size" yaml:"page_size"`
	MaxRowsTable int           `mapstructure:"max_rows_per_table" yaml:"max_rows_per_table"`
}

// DeployConfig names the deployed artifacts.
type DeployConfig struct {
	GroupName    string `mapstructure:"group_name" yaml:"group_name"`
	DataEndpoint string `mapstructure:"data_endpoint" yaml:"data_endpoint"`
	PageEndpoint string `mapstructure:"page_endpoint" yaml:"page_endpoint"`
	Title        string `mapstructure:"title" yaml:"title"`
}

// PreviewConfig holds the local preview server settings.
type PreviewConfig struct {
	Addr         string   `mapstructure:"addr" yaml:"addr"`
	AllowOrigins []string `mapstructure:"allow_origins" yaml:"allow_origins"`
}

// LayoutConfig exposes the simulation knobs worth tuning from outside; the
// rest of the constants live with the layout engine.
type LayoutConfig struct {
	Iterations int     `mapstructure:"iterations" yaml:"iterations"`
	RestLength float64 `mapstructure:"rest_length" yaml:"rest_length"`
}

// SetDefaults registers every default on the given viper instance. Called
// before reading the config file so file values override them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "xano-viz")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)

	v.SetDefault("xano.rate_limit", 5.0)
	v.SetDefault("xano.timeout", 30*time.Second)
	v.SetDefault("xano.page_size", 100)
	v.SetDefault("xano.max_rows_per_table", 2000)

	v.SetDefault("deploy.group_name", "Database Visualizer")
	v.SetDefault("deploy.data_endpoint", "graph-data")
	v.SetDefault("deploy.page_endpoint", "visualizer")
	v.SetDefault("deploy.title", "Database Visualizer")

	v.SetDefault("preview.addr", "127.0.0.1:8090")

	v.SetDefault("layout.iterations", 120)
	v.SetDefault("layout.rest_length", 90.0)
}

// Validate checks invariants that viper cannot express.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logger.format must be \"console\" or \"json\", got %q", c.Logger.Format)
	}
	if c.Xano.RateLimit < 0 {
		return fmt.Errorf("config: xano.rate_limit must be non-negative")
	}
	if c.Layout.Iterations < 0 {
		return fmt.Errorf("config: layout.iterations must be non-negative")
	}
	return nil
}
