package config

import (
	"time"

	"github.com/spf13/viper"
)

// Task names known to the scheduler.
const (
	TaskSessionCleanup = "session_cleanup"
	TaskSQLMaintenance = "sql_maintenance"
)

const (
	DefaultLogLevel = "info"

	DefaultTopUsers  = 5
	DefaultTopWords  = 20
	DefaultTopEmojis = 10

	DefaultMaxFileSize     = 10 << 20
	DefaultDownloadTimeout = 30 * time.Second

	DefaultSessionTTL = 2 * time.Hour

	DefaultSessionCleanupSchedule = "*/10 * * * *"
	DefaultSQLMaintenanceSchedule = "0 4 * * 0"
)

// DefaultMessages are the bot replies used when the configuration leaves them out.
var DefaultMessages = MessagesConfig{
	Welcome: "👋 Send me a WhatsApp chat export (.txt, without media) and I'll show you who talks the most, " +
		"when, and about what.",
	Help: "Upload a WhatsApp export as a document, then:\n" +
		"/stats [name] - statistics for everyone or one participant (=name for someone called All)\n" +
		"/users - list participants\n" +
		"/csv [name] - download the full report as CSV\n" +
		"/history - reports archived for this chat\n" +
		"/reset - forget the uploaded chat",
	NoSession:     "ℹ️ No chat loaded. Send me a WhatsApp export first.",
	UnknownUser:   "🤷 Nobody called %q wrote in this chat. Use /users to see the participants.",
	SessionReset:  "🔄 Uploaded chat has been discarded.",
	FileTooLarge:  "📦 That file is too large. The limit is %s.",
	InvalidExport: "❌ That doesn't look like a WhatsApp export: %s",
	GeneralError:  "❌ An error occurred. Please try again later.",

	HistoryEmpty:    "🗄 No reports have been archived for this chat yet.",
	HistoryDisabled: "🗄 The report archive is not enabled on this bot.",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("analysis.top_users", DefaultTopUsers)
	v.SetDefault("analysis.top_words", DefaultTopWords)
	v.SetDefault("analysis.top_emojis", DefaultTopEmojis)
	v.SetDefault("analysis.stop_words_file", "")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.max_file_size", DefaultMaxFileSize)
	v.SetDefault("telegram.download_timeout", DefaultDownloadTimeout)

	v.SetDefault("session.ttl", DefaultSessionTTL)

	v.SetDefault("scheduler.tasks."+TaskSessionCleanup+".schedule", DefaultSessionCleanupSchedule)
	v.SetDefault("scheduler.tasks."+TaskSessionCleanup+".enabled", true)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".schedule", DefaultSQLMaintenanceSchedule)
	v.SetDefault("scheduler.tasks."+TaskSQLMaintenance+".enabled", true)

	v.SetDefault("database.path", "")

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.help", DefaultMessages.Help)
	v.SetDefault("messages.no_session", DefaultMessages.NoSession)
	v.SetDefault("messages.unknown_user", DefaultMessages.UnknownUser)
	v.SetDefault("messages.session_reset", DefaultMessages.SessionReset)
	v.SetDefault("messages.file_too_large", DefaultMessages.FileTooLarge)
	v.SetDefault("messages.invalid_export", DefaultMessages.InvalidExport)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("messages.history_empty", DefaultMessages.HistoryEmpty)
	v.SetDefault("messages.history_disabled", DefaultMessages.HistoryDisabled)
}
