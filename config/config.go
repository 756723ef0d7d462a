package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/spektr-org/crediview/schema"
)

// EnvPrefix prefixes every environment override, e.g. CREDIVIEW_DATA_PATH.
const EnvPrefix = "CREDIVIEW"

// Config is the full process configuration.
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Server ServerConfig `mapstructure:"server"`
	Render RenderConfig `mapstructure:"render"`
	Charts ChartsConfig `mapstructure:"charts"`
	Log    LogConfig    `mapstructure:"log"`
	Tenure TenureConfig `mapstructure:"tenure"`
}

type DataConfig struct {
	Path      string `mapstructure:"path"`
	Delimiter string `mapstructure:"delimiter"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// RenderConfig is the PNG size in pixels.
type RenderConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type ChartsConfig struct {
	Bins int `mapstructure:"bins"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type TenureConfig struct {
	Order []string `mapstructure:"order"`
}

// New returns a viper instance with defaults and env overrides set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("data.path", "datos_finales.csv")
	v.SetDefault("data.delimiter", ";")
	v.SetDefault("server.addr", ":8501")
	v.SetDefault("render.width", 800)
	v.SetDefault("render.height", 500)
	v.SetDefault("charts.bins", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("tenure.order", schema.Credit().Order(schema.ColTenure))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path (any format viper knows by
// extension) over the defaults.
func Load(path string) (*Config, error) {
	return LoadFrom(New(), path)
}

// LoadFrom is Load on a caller-prepared viper, e.g. one with bound flags.
func LoadFrom(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make the dashboard unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.Data.Path == "" {
		errs = append(errs, errors.New("data.path is empty"))
	}
	if utf8.RuneCountInString(c.Data.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("data.delimiter must be a single character, got %q", c.Data.Delimiter))
	}
	if c.Charts.Bins <= 0 {
		errs = append(errs, fmt.Errorf("charts.bins must be positive, got %d", c.Charts.Bins))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if len(c.Tenure.Order) == 0 {
		errs = append(errs, errors.New("tenure.order is empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Delimiter returns the data delimiter as a rune. Call after Validate.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Data.Delimiter)
	return r
}
