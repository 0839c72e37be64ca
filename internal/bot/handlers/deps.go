package handlers

import (
	"log/slog"

	"github.com/edgard/chatstat/internal/config"
	"github.com/edgard/chatstat/internal/database"
	"github.com/edgard/chatstat/internal/report"
	"github.com/edgard/chatstat/internal/resilience"
	"github.com/edgard/chatstat/internal/session"
)

// HandlerDeps provides dependencies for Telegram command handlers.
// Store is nil when no report archive is configured. Downloads guards file
// downloads from Telegram; nil disables the breaker but keeps retries.
type HandlerDeps struct {
	Logger        *slog.Logger
	Config        *config.Config
	Sessions      *session.Manager
	Store         database.Store
	ReportOptions report.Options
	Downloads     *resilience.CircuitBreaker
}
