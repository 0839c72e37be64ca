package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edgard/chatstat/internal/report"
)

// Store defines the report archive operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveReport archives r under source and returns the new report ID.
	SaveReport(ctx context.Context, source string, r *report.Report) (string, error)

	// ListReports returns the most recent reports for source, newest first.
	// An empty source lists every report.
	ListReports(ctx context.Context, source string, limit int) ([]ReportRow, error)

	// GetReport returns one report headline. Returns nil, nil if not found.
	GetReport(ctx context.Context, id string) (*ReportRow, error)

	// GetReportEntries returns the rows of one section in their original
	// order. An empty section returns every section.
	GetReportEntries(ctx context.Context, id, section string) ([]Entry, error)

	// DeleteReports removes every report archived under source.
	DeleteReports(ctx context.Context, source string) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveReport writes the headline and every section row in one transaction.
func (s *sqlxStore) SaveReport(ctx context.Context, source string, r *report.Report) (string, error) {
	if r == nil {
		return "", fmt.Errorf("cannot save nil report")
	}
	if source == "" {
		return "", fmt.Errorf("report source must not be empty")
	}

	row := ReportRow{
		ID:        uuid.NewString(),
		Source:    source,
		Filter:    r.Filter,
		CreatedAt: time.Now().UTC(),
		Messages:  r.Stats.Messages,
		Words:     r.Stats.Words,
		Media:     r.Stats.Media,
		Links:     r.Stats.Links,
		Emojis:    r.Stats.Emojis,
	}
	if !r.Stats.First.IsZero() {
		row.FirstMessage = sql.NullTime{Time: r.Stats.First, Valid: true}
		row.LastMessage = sql.NullTime{Time: r.Stats.Last, Valid: true}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving report", "source", source, "error", err)
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO reports (id, source, filter, messages, words, media, links, emojis, first_message, last_message, created_at)
        VALUES (:id, :source, :filter, :messages, :words, :media, :links, :emojis, :first_message, :last_message, :created_at);
    `, row)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving report", "source", source, "error", err)
		return "", fmt.Errorf("failed to save report for %s: %w", source, err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
        INSERT INTO report_entries (report_id, section, position, label, value)
        VALUES (:report_id, :section, :position, :label, :value);
    `)
	if err != nil {
		return "", fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	entries := 0
	for _, section := range report.Sections(r) {
		for i, cells := range section.Rows {
			entry := Entry{
				ReportID: row.ID,
				Section:  section.Title,
				Position: i,
				Label:    cells[0],
				Value:    strings.Join(cells[1:], ","),
			}
			if _, err := stmt.ExecContext(ctx, entry); err != nil {
				s.logger.ErrorContext(ctx, "Error saving report entry",
					"report_id", row.ID, "section", section.Title, "error", err)
				return "", fmt.Errorf("failed to save %s entry %d: %w", section.Title, i, err)
			}
			entries++
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "report_id", row.ID, "error", err)
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Report saved",
		"report_id", row.ID, "source", source, "filter", row.Filter, "entries", entries)
	return row.ID, nil
}

func (s *sqlxStore) ListReports(ctx context.Context, source string, limit int) ([]ReportRow, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	query := `
        SELECT id, source, filter, messages, words, media, links, emojis, first_message, last_message, created_at
        FROM reports
        WHERE (? = '' OR source = ?)
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?;
    `

	var rows []ReportRow
	if err := s.db.SelectContext(ctx, &rows, query, source, source, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error listing reports", "source", source, "error", err)
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return rows, nil
}

func (s *sqlxStore) GetReport(ctx context.Context, id string) (*ReportRow, error) {
	var row ReportRow
	err := s.db.GetContext(ctx, &row, `
        SELECT id, source, filter, messages, words, media, links, emojis, first_message, last_message, created_at
        FROM reports WHERE id = ?;
    `, id)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting report", "report_id", id, "error", err)
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	return &row, nil
}

func (s *sqlxStore) GetReportEntries(ctx context.Context, id, section string) ([]Entry, error) {
	query := `
        SELECT id, report_id, section, position, label, value
        FROM report_entries
        WHERE report_id = ? AND (? = '' OR section = ?)
        ORDER BY id;
    `

	var entries []Entry
	if err := s.db.SelectContext(ctx, &entries, query, id, section, section); err != nil {
		s.logger.ErrorContext(ctx, "Error getting report entries", "report_id", id, "section", section, "error", err)
		return nil, fmt.Errorf("failed to get entries for report %s: %w", id, err)
	}
	return entries, nil
}

// DeleteReports removes the reports of source and their entries atomically.
func (s *sqlxStore) DeleteReports(ctx context.Context, source string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM report_entries WHERE report_id IN (SELECT id FROM reports WHERE source = ?)`, source); err != nil {
		return 0, fmt.Errorf("failed to delete report entries: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE source = ?`, source)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reports: %w", err)
	}
	count, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Deleted archived reports", "source", source, "count", count)
	return count, nil
}

// RunSQLMaintenance executes VACUUM on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")

	// VACUUM cannot run inside a transaction.
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
