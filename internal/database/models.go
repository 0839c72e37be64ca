package database

import (
	"database/sql"
	"time"
)

// ReportRow is the headline of an archived report.
type ReportRow struct {
	ID        string    `db:"id"`
	Source    string    `db:"source"`
	Filter    string    `db:"filter"`
	CreatedAt time.Time `db:"created_at"`

	Messages int `db:"messages"`
	Words    int `db:"words"`
	Media    int `db:"media"`
	Links    int `db:"links"`
	Emojis   int `db:"emojis"`

	FirstMessage sql.NullTime `db:"first_message"`
	LastMessage  sql.NullTime `db:"last_message"`
}

// Entry is one row of an archived report section. Value holds the
// remaining columns of the row, comma separated.
type Entry struct {
	ID       int64  `db:"id"`
	ReportID string `db:"report_id"`
	Section  string `db:"section"`
	Position int    `db:"position"`
	Label    string `db:"label"`
	Value    string `db:"value"`
}
