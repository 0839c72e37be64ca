package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"

	"github.com/edgard/chatstat/internal/metrics"
	"github.com/edgard/chatstat/internal/report"
	"github.com/edgard/chatstat/internal/session"
)

const (
	// maxMessageLength is Telegram's limit for one text message.
	maxMessageLength = 4096

	sendMessageTimeout = 10 * time.Second
	archiveTimeout     = 5 * time.Second
)

// ErrFileTooLarge is returned by DownloadDocument when the file exceeds the limit.
var ErrFileTooLarge = errors.New("file too large")

// DownloadDocument fetches an uploaded file, reading at most maxSize bytes.
func DownloadDocument(ctx context.Context, b *bot.Bot, fileID string, maxSize int64, timeout time.Duration) (data []byte, err error) {
	if fileID == "" {
		return nil, fmt.Errorf("empty fileID provided")
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled before file download: %w", ctx.Err())
	}

	downloadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fileObj, err := b.GetFile(downloadCtx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if fileObj.FilePath == "" {
		return nil, fmt.Errorf("empty file path returned from Telegram")
	}

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, b.FileDownloadLink(fileObj), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file data: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("received empty file data")
	}
	return data, nil
}

// reply sends text to chatID, logging instead of returning failures.
func reply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	_, err := b.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   truncateMessage(text, maxMessageLength),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// commandArgs returns the text after the command word, e.g. "Alice" for
// "/stats@chatstat_bot Alice".
func commandArgs(text string) string {
	_, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(args)
}

// truncateMessage cuts s to at most limit runes.
func truncateMessage(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// archiveSource is the report archive key of a chat.
func archiveSource(chatID int64) string {
	return fmt.Sprintf("telegram:%d", chatID)
}

// buildReport runs the analysis for f and archives the result when a store
// is configured. Archive failures are logged, not returned.
func buildReport(ctx context.Context, deps HandlerDeps, s session.Session, f metrics.Filter) (*report.Report, error) {
	r, err := report.Build(s.Records, f, deps.ReportOptions)
	if err != nil {
		return nil, err
	}

	if deps.Store != nil {
		archiveCtx, cancel := context.WithTimeout(ctx, archiveTimeout)
		defer cancel()
		if id, err := deps.Store.SaveReport(archiveCtx, archiveSource(s.ChatID), r); err != nil {
			deps.Logger.WarnContext(ctx, "Failed to archive report", "chat_id", s.ChatID, "error", err)
		} else {
			deps.Logger.DebugContext(ctx, "Report archived", "chat_id", s.ChatID, "report_id", id)
		}
	}
	return r, nil
}

// resolveFilter maps command arguments to a filter, checking that a named
// participant exists in the session. ok is false when the name is unknown.
func resolveFilter(s session.Session, args string) (f metrics.Filter, ok bool) {
	f = metrics.ParseFilter(args)
	if f.IsAll() {
		return f, true
	}
	return f, s.Records.HasSender(f.Name())
}
