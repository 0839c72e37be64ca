package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	errs "github.com/edgard/chatstat/internal/errors"
	"github.com/edgard/chatstat/internal/metrics"
	"github.com/edgard/chatstat/internal/report"
	"github.com/edgard/chatstat/internal/resilience"
	"github.com/edgard/chatstat/internal/transcript"
)

// NewUploadHandler returns the default handler. A document is treated as a
// WhatsApp export: it is downloaded, parsed and stored as the chat's session,
// replacing any previous one. Other unmatched updates are ignored.
func NewUploadHandler(deps HandlerDeps) bot.HandlerFunc {
	return uploadHandler{deps}.Handle
}

type uploadHandler struct {
	deps HandlerDeps
}

func (h uploadHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Document == nil {
		return
	}
	msg := update.Message
	doc := msg.Document
	chatID := msg.Chat.ID
	log := h.deps.Logger.With("handler", "upload", "chat_id", chatID, "file_name", doc.FileName)

	limit := h.deps.Config.Telegram.MaxFileSize
	if doc.FileSize > limit {
		log.InfoContext(ctx, "Rejected oversized upload", "file_size", doc.FileSize, "limit", limit)
		reply(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.FileTooLarge, humanize.IBytes(uint64(limit))))
		return
	}

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	data, err := h.fetch(ctx, b, doc.FileID)
	if errors.Is(err, ErrFileTooLarge) {
		reply(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.FileTooLarge, humanize.IBytes(uint64(limit))))
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to download document", "error", err)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	recs, err := loadTranscript(data)
	if err != nil {
		log.InfoContext(ctx, "Rejected upload", "error", err, "error_code", errs.Code(err))
		reply(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.InvalidExport, err))
		return
	}

	s := h.deps.Sessions.Put(chatID, doc.FileName, recs)

	r, err := buildReport(ctx, h.deps, s, metrics.All())
	if err != nil {
		log.ErrorContext(ctx, "Failed to build report", "error", err)
		reply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	var text strings.Builder
	fmt.Fprintf(&text, "📥 Loaded %s: %s messages from %d participants.\n", doc.FileName,
		humanize.Comma(int64(len(recs))), len(s.Senders))
	fmt.Fprintf(&text, "Participants: %s\n\n", strings.Join(s.Senders, ", "))
	text.WriteString(report.Summary(r))

	reply(ctx, b, log, chatID, text.String())
}

// fetch downloads a document with retries, through the download circuit
// breaker when one is configured.
func (h uploadHandler) fetch(ctx context.Context, b *bot.Bot, fileID string) ([]byte, error) {
	cfg := h.deps.Config.Telegram
	var data []byte

	attempt := func(ctx context.Context) error {
		var err error
		data, err = DownloadDocument(ctx, b, fileID, cfg.MaxFileSize, cfg.DownloadTimeout)
		if errors.Is(err, ErrFileTooLarge) {
			return resilience.Permanent(err)
		}
		return err
	}
	download := func(ctx context.Context) error {
		return resilience.WithRetry(ctx, attempt, resilience.DefaultRetryConfig())
	}

	var err error
	if h.deps.Downloads != nil {
		err = h.deps.Downloads.Execute(ctx, download)
	} else {
		err = download(ctx)
	}
	return data, err
}

// loadTranscript decodes and parses an uploaded export.
func loadTranscript(data []byte) (transcript.Records, error) {
	text, err := transcript.Decode(data)
	if err != nil {
		return nil, err
	}
	return transcript.Parse(text)
}
