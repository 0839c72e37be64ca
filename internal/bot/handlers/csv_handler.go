package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatstat/internal/report"
)

// NewCSVHandler returns a handler for /csv [name], which sends the full
// report as a CSV document.
func NewCSVHandler(deps HandlerDeps) bot.HandlerFunc {
	return csvHandler{deps}.Handle
}

type csvHandler struct {
	deps HandlerDeps
}

func (h csvHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	s, ok := sessionFromContext(ctx)
	if !ok || update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	log := h.deps.Logger.With("handler", "csv", "chat_id", chatID)

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

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, r); err != nil {
		log.ErrorContext(ctx, "Failed to render CSV", "error", err)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: csvFileName(r.Filter),
			Data:     &buf,
		},
		Caption: fmt.Sprintf("Chat statistics: %s", r.Filter),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send CSV document", "error", err)
		return
	}
	log.InfoContext(ctx, "Sent CSV report", "filter", r.Filter, "bytes", buf.Len())
}

// csvFileName builds a download name such as "chatstat-overall.csv".
func csvFileName(filter string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ' || r == '_':
			return '-'
		default:
			return -1
		}
	}, filter)
	if name == "" {
		name = "report"
	}
	return "chatstat-" + name + ".csv"
}
