package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.deps.Logger.InfoContext(ctx, "Handling /start command", "chat_id", update.Message.Chat.ID)
	reply(ctx, b, h.deps.Logger, update.Message.Chat.ID, h.deps.Config.Messages.Welcome)
}
