package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "TILEFORGE"

type Window struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Config holds the editor settings.
type Config struct {
	AssetsDir  string  `mapstructure:"assets_dir"`
	ZoomFactor float64 `mapstructure:"zoom_factor"`
	PlaneCount int     `mapstructure:"plane_count"`
	UndoLimit  int     `mapstructure:"undo_limit"`
	LogLevel   string  `mapstructure:"log_level"`
	Watch      bool    `mapstructure:"watch"`
	Window     Window  `mapstructure:"window"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("assets_dir", "assets")
	v.SetDefault("zoom_factor", 0.005)
	v.SetDefault("plane_count", 16)
	v.SetDefault("undo_limit", 100)
	v.SetDefault("log_level", "info")
	v.SetDefault("watch", true)
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
}

// Load reads the YAML file at path, if any, over the defaults. A .env file
// in the working directory and TILEFORGE_* variables override both.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.ZoomFactor <= 0:
		return fmt.Errorf("config: zoom_factor must be positive, got %v", c.ZoomFactor)
	case c.PlaneCount < 3:
		return fmt.Errorf("config: plane_count must be at least 3, got %d", c.PlaneCount)
	case c.UndoLimit < 1:
		return fmt.Errorf("config: undo_limit must be at least 1, got %d", c.UndoLimit)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// NewLogger returns a text logger at the configured level.
func NewLogger(c *Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}
	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}
