package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/edgard/chatstat/internal/config"
	"github.com/edgard/chatstat/internal/database"
)

const historyLimit = 20

// browse serves -history, -show and -purge from the report archive.
func browse(ctx context.Context, cfg *config.Config, opts options, stdout io.Writer, log *slog.Logger) error {
	if cfg.Database.Path == "" {
		return errors.New("the report archive needs -sqlite or database.path")
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	switch {
	case opts.show != "":
		return showReport(ctx, store, opts.show, stdout)
	case opts.purge != "":
		n, err := store.DeleteReports(ctx, opts.purge)
		if err != nil {
			return err
		}
		log.Info("Purged archived reports", "source", opts.purge, "deleted", n)
		_, err = fmt.Fprintf(stdout, "Deleted %d reports of %s\n", n, opts.purge)
		return err
	default:
		source := ""
		if opts.file != "" {
			source = cliSource(opts.file)
		}
		return listReports(ctx, store, source, stdout)
	}
}

func listReports(ctx context.Context, store database.Store, source string, w io.Writer) error {
	rows, err := store.ListReports(ctx, source, historyLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := io.WriteString(w, "No archived reports.\n")
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s  %s  %s  %s: %s messages\n",
			row.ID, row.CreatedAt.Format(time.DateTime), row.Source, row.Filter,
			humanize.Comma(int64(row.Messages))); err != nil {
			return err
		}
	}
	return nil
}

func showReport(ctx context.Context, store database.Store, id string, w io.Writer) error {
	row, err := store.GetReport(ctx, id)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("report %q not found", id)
	}
	entries, err := store.GetReportEntries(ctx, id, "")
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Report %s\n", row.ID)
	fmt.Fprintf(w, "Source: %s\nFilter: %s\nCreated: %s\n", row.Source, row.Filter, row.CreatedAt.Format(time.DateTime))
	if row.FirstMessage.Valid && row.LastMessage.Valid {
		fmt.Fprintf(w, "Period: %s to %s\n", row.FirstMessage.Time.Format(time.DateOnly), row.LastMessage.Time.Format(time.DateOnly))
	}
	fmt.Fprintf(w, "Messages: %s, words: %s, media: %s, links: %s, emojis: %s\n",
		humanize.Comma(int64(row.Messages)), humanize.Comma(int64(row.Words)), humanize.Comma(int64(row.Media)),
		humanize.Comma(int64(row.Links)), humanize.Comma(int64(row.Emojis)))

	section := ""
	for _, e := range entries {
		if e.Section != section {
			section = e.Section
			fmt.Fprintf(w, "\n%s\n", section)
		}
		fmt.Fprintf(w, "  %s: %s\n", e.Label, e.Value)
	}
	return nil
}
