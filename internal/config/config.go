// Package config loads the application configuration from a YAML file,
// CHATSTAT_* environment variables and built-in defaults.
package config

import "time"

// Config is the root configuration of the CLI and the Telegram bot.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Session   SessionConfig   `mapstructure:"session"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig selects the log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// AnalysisConfig sizes the ranked report sections.
type AnalysisConfig struct {
	TopUsers      int    `mapstructure:"top_users"       validate:"min=1,max=100"`
	TopWords      int    `mapstructure:"top_words"       validate:"min=1,max=500"`
	TopEmojis     int    `mapstructure:"top_emojis"      validate:"min=1,max=500"`
	StopWordsFile string `mapstructure:"stop_words_file" validate:"omitempty,file"`
}

// TelegramConfig holds the bot credentials and upload limits.
type TelegramConfig struct {
	Token           string        `mapstructure:"token"`
	MaxFileSize     int64         `mapstructure:"max_file_size"    validate:"min=1024"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout" validate:"min=1s,max=10m"`
}

// SessionConfig controls how long an uploaded transcript is kept per chat.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"min=1m"`
}

// SchedulerConfig holds the periodic task settings keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig is the schedule of one periodic task.
type TaskConfig struct {
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
	Enabled  bool   `mapstructure:"enabled"`
}

// DatabaseConfig locates the optional SQLite report archive.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// MessagesConfig holds the texts the bot replies with.
type MessagesConfig struct {
	Welcome       string `mapstructure:"welcome"        validate:"required"`
	Help          string `mapstructure:"help"           validate:"required"`
	NoSession     string `mapstructure:"no_session"     validate:"required"`
	UnknownUser   string `mapstructure:"unknown_user"   validate:"required"`
	SessionReset  string `mapstructure:"session_reset"  validate:"required"`
	FileTooLarge  string `mapstructure:"file_too_large" validate:"required"`
	InvalidExport string `mapstructure:"invalid_export" validate:"required"`
	GeneralError  string `mapstructure:"general_error"  validate:"required"`

	HistoryEmpty    string `mapstructure:"history_empty"    validate:"required"`
	HistoryDisabled string `mapstructure:"history_disabled" validate:"required"`
}
