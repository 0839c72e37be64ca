// Package tasks implements the periodic housekeeping jobs of the bot.
package tasks

import (
	"log/slog"

	"github.com/edgard/chatstat/internal/config"
	"github.com/edgard/chatstat/internal/database"
	"github.com/edgard/chatstat/internal/session"
)

// TaskDeps contains the dependencies shared by scheduled tasks.
// Store is nil when no report archive is configured.
type TaskDeps struct {
	Logger   *slog.Logger
	Sessions *session.Manager
	Store    database.Store
	Config   *config.Config
}
