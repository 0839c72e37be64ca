package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatstat/internal/report"
)

// NewStatsHandler returns a handler for /stats [name].
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	s, ok := sessionFromContext(ctx)
	if !ok || update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	log := h.deps.Logger.With("handler", "stats", "chat_id", chatID)

	f, known := resolveFilter(s, commandArgs(update.Message.Text))
	if !known {
		reply(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.UnknownUser, f.Name()))
		return
	}

	r, err := buildReport(ctx, h.deps, s, f)
	if err != nil {
		log.ErrorContext(ctx, "Failed to build report", "filter", f.String(), "error", err)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	reply(ctx, b, log, chatID, report.Summary(r))
}
