// Package config loads server settings from defaults, an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the effective server configuration.
type Config struct {
	Port           string   `mapstructure:"port" yaml:"port" validate:"required,numeric"`
	UploadDir      string   `mapstructure:"upload_dir" yaml:"upload_dir" validate:"required"`
	StaticDir      string   `mapstructure:"static_dir" yaml:"static_dir" validate:"required"`
	MaxUploadMB    int64    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" validate:"min=1,max=1024"`
	PreviewRows    int      `mapstructure:"preview_rows" yaml:"preview_rows" validate:"min=1"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins" validate:"dive,required"`
	LogLevel       string   `mapstructure:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogPretty      bool     `mapstructure:"log_pretty" yaml:"log_pretty"`
}

// MaxUploadBytes is the multipart size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// YAML renders the configuration in the same shape Load accepts.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Load reads configuration. Precedence: env > config file > defaults.
// PORT is honoured unprefixed, every other key as EDA_<KEY>.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EDA")
	v.AutomaticEnv()
	_ = v.BindEnv("port", "PORT", "EDA_PORT")

	v.SetDefault("port", "5000")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("static_dir", "static")
	v.SetDefault("max_upload_mb", 100)
	v.SetDefault("preview_rows", 20)
	v.SetDefault("allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("edareport")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
