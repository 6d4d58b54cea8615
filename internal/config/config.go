package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shopfront-cli/internal/catalog"
	"shopfront-cli/internal/session"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog" json:"catalog"`
	Captcha CaptchaConfig `mapstructure:"captcha" json:"captcha"`
	Log     LogConfig     `mapstructure:"log" json:"log"`
	TUI     TUIConfig     `mapstructure:"tui" json:"tui"`
}

type CatalogConfig struct {
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"`
	ExcludedIDs []int  `mapstructure:"excluded_ids" json:"excludedIds"`
}

type CaptchaConfig struct {
	SiteKey string `mapstructure:"site_key" json:"siteKey"`
}

type LogConfig struct {
	File  string `mapstructure:"file" json:"file"`
	Level string `mapstructure:"level" json:"level"`
}

type TUIConfig struct {
	// Theme is one of: auto|light|dark
	Theme string `mapstructure:"theme" json:"theme"`
	Mouse bool   `mapstructure:"mouse" json:"mouse"`
}

const envPrefix = "SHOPFRONT"

// New returns a viper instance carrying defaults and env bindings. Callers
// may bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("catalog.endpoint", catalog.DefaultEndpoint)
	v.SetDefault("catalog.excluded_ids", catalog.DefaultExcludedIDs)
	v.SetDefault("captcha.site_key", session.DefaultSiteKey)
	v.SetDefault("log.file", DefaultLogFile())
	v.SetDefault("log.level", "info")
	v.SetDefault("tui.theme", "auto")
	v.SetDefault("tui.mouse", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (explicit path, SHOPFRONT_CONFIG, or
// ~/.config/shopfront/config.yaml) into v and decodes it. A missing default
// file is not an error; a missing explicit file is.
func Load(v *viper.Viper, path string) (Config, error) {
	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "shopfront"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Catalog.Endpoint) == "" {
		return errors.New("catalog.endpoint must not be empty")
	}
	switch strings.ToLower(strings.TrimSpace(c.TUI.Theme)) {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("tui.theme: unknown value %q (want auto|light|dark)", c.TUI.Theme)
	}
	return nil
}

// ConfigFileUsed is empty when defaults/env only were applied.
func ConfigFileUsed(v *viper.Viper) string {
	return v.ConfigFileUsed()
}

// DefaultLogFile is under the user's state directory so the TUI never writes
// log lines onto the terminal.
func DefaultLogFile() string {
	if d := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); d != "" {
		return filepath.Join(d, "shopfront", "shopfront.log")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "shopfront.log")
	}
	return filepath.Join(home, ".shopfront", "shopfront.log")
}
