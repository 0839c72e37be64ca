package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	errs "github.com/edgard/chatstat/internal/errors"
)

// EnvPrefix prefixes environment overrides, e.g. CHATSTAT_TELEGRAM_TOKEN.
const EnvPrefix = "CHATSTAT"

// LoadConfig loads and validates configuration from, in increasing priority:
//  1. built-in defaults
//  2. the YAML file at path (optional; empty path or missing file is fine)
//  3. CHATSTAT_* environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, errs.NewConfigError("failed to read config file "+path, err)
			}
			slog.Debug("Config file not found, using defaults", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errs.NewConfigError("failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
