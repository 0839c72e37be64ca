package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewResetHandler returns a handler for the /reset command, which discards
// the transcript uploaded in the chat.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	existed := h.deps.Sessions.Delete(chatID)
	h.deps.Logger.InfoContext(ctx, "Session reset requested", "handler", "reset", "chat_id", chatID, "existed", existed)

	reply(ctx, b, h.deps.Logger, chatID, h.deps.Config.Messages.SessionReset)
}
