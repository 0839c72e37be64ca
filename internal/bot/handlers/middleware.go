// Package handlers contains the Telegram command and upload handlers of the
// bot, along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatstat/internal/session"
)

type sessionKey struct{}

// RequireSession only lets an update through when its chat has a loaded
// transcript. The session is handed to the next handler through the context;
// otherwise the chat is told to upload an export first.
func RequireSession(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				return
			}

			chatID := update.Message.Chat.ID
			s, ok := deps.Sessions.Get(chatID)
			if !ok {
				deps.Logger.With("middleware", "RequireSession").DebugContext(ctx, "No session for chat", "chat_id", chatID)
				reply(ctx, bot, deps.Logger, chatID, deps.Config.Messages.NoSession)
				return
			}

			next(context.WithValue(ctx, sessionKey{}, s), bot, update)
		}
	}
}

func sessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(session.Session)
	return s, ok
}
