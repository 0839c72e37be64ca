package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const historyLimit = 10

// NewHistoryHandler returns a handler for /history, listing the most recent
// reports archived for the chat. It works without a loaded session.
func NewHistoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return historyHandler{deps}.Handle
}

type historyHandler struct {
	deps HandlerDeps
}

func (h historyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	log := h.deps.Logger.With("handler", "history", "chat_id", chatID)

	if h.deps.Store == nil {
		reply(ctx, b, log, chatID, h.deps.Config.Messages.HistoryDisabled)
		return
	}

	listCtx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()
	rows, err := h.deps.Store.ListReports(listCtx, archiveSource(chatID), historyLimit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list archived reports", "error", err)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}
	if len(rows) == 0 {
		reply(ctx, b, log, chatID, h.deps.Config.Messages.HistoryEmpty)
		return
	}

	var text strings.Builder
	fmt.Fprintf(&text, "🗄 Last %d archived reports:\n", len(rows))
	for _, row := range rows {
		fmt.Fprintf(&text, "• %s (%s): %s messages, %s words\n",
			row.Filter, humanize.RelTime(row.CreatedAt, time.Now(), "ago", "from now"),
			humanize.Comma(int64(row.Messages)), humanize.Comma(int64(row.Words)))
	}
	reply(ctx, b, log, chatID, text.String())
}
