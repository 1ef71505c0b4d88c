package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/ByLCY/siliconsim/design"
	"github.com/ByLCY/siliconsim/labels"
)

// Config holds application configuration.
type Config struct {
	Locale    string      `mapstructure:"locale"`
	OutputDir string      `mapstructure:"output_dir"`
	LogPath   string      `mapstructure:"log_path"`
	Grid      GridConfig  `mapstructure:"grid"`
	Fonts     FontsConfig `mapstructure:"fonts"`
}

// GridConfig holds die settings applied when a session opens.
type GridConfig struct {
	InitialSize int `mapstructure:"initial_size"`
}

// FontsConfig points scene fonts at font files on disk.
// Empty values keep the embedded fonts.
type FontsConfig struct {
	Engraving string `mapstructure:"engraving"`
}

// DefaultLogPath is where runtime events are written unless configured otherwise.
func DefaultLogPath() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "state", "siliconsim", "siliconsim.log")
}

// Load reads configuration from file and env. Env var overrides use prefix SILICONSIM_.
// An explicit path must exist; otherwise $SILICONSIM_CONFIG or
// $HOME/.config/siliconsim/config.toml is used when present.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("locale", labels.DefaultLocale)
	v.SetDefault("output_dir", ".")
	v.SetDefault("log_path", DefaultLogPath())
	v.SetDefault("grid.initial_size", design.DefaultSize)
	v.SetDefault("fonts.engraving", "")

	v.SetConfigType("toml")

	explicit := path
	if explicit == "" {
		explicit = os.Getenv("SILICONSIM_CONFIG")
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "siliconsim"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SILICONSIM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Locale = strings.ToUpper(strings.TrimSpace(c.Locale))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects unknown locales and die sizes outside the supported range.
func (c Config) Validate() error {
	if !slices.Contains(labels.Locales(), strings.ToUpper(c.Locale)) {
		return fmt.Errorf("config locale %q: %w", c.Locale, labels.ErrUnknownLocale)
	}
	if c.Grid.InitialSize < design.MinSize || c.Grid.InitialSize > design.MaxSize {
		return fmt.Errorf("config grid.initial_size %d: %w", c.Grid.InitialSize, design.ErrOutOfRange)
	}
	return nil
}
