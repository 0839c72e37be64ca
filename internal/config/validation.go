package config

import (
	"github.com/go-playground/validator/v10"

	errs "github.com/edgard/chatstat/internal/errors"
)

// Validate checks the value constraints declared on the config structs.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return errs.NewConfigError("invalid configuration", err)
	}
	return nil
}

// ValidateBot checks the settings only the Telegram bot needs.
func (c *Config) ValidateBot() error {
	if c.Telegram.Token == "" {
		return errs.NewConfigError("telegram.token is required (or set "+EnvPrefix+"_TELEGRAM_TOKEN)", nil)
	}
	return nil
}

// TaskEnabled reports whether the named scheduler task is configured and enabled.
func (c *Config) TaskEnabled(name string) bool {
	task, ok := c.Scheduler.Tasks[name]
	return ok && task.Enabled
}
