package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewUsersHandler returns a handler for /users, listing the participants of
// the uploaded chat.
func NewUsersHandler(deps HandlerDeps) bot.HandlerFunc {
	return usersHandler{deps}.Handle
}

type usersHandler struct {
	deps HandlerDeps
}

func (h usersHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	s, ok := sessionFromContext(ctx)
	if !ok || update.Message == nil {
		return
	}

	var text strings.Builder
	fmt.Fprintf(&text, "👥 Participants of %s (%d):\n", s.Source, len(s.Senders))
	for _, name := range s.Senders {
		fmt.Fprintf(&text, "• %s\n", name)
	}
	text.WriteString("\nUse /stats <name> for one participant.")

	reply(ctx, b, h.deps.Logger, update.Message.Chat.ID, text.String())
}
