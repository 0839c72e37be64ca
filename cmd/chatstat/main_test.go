package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edgard/chatstat/internal/database"
	"github.com/edgard/chatstat/internal/report"
)

const export = "1/1/23, 10:00 - Alice: hello pizza\n" +
	"1/1/23, 10:05 - Bob: <Media omitted>\n" +
	"1/2/23, 11:00 - Alice: pizza again https://example.com 😂\n" +
	"1/2/23, 11:01 - Bob left"

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Text(t *testing.T) {
	t.Parallel()

	code, out, stderr := runCLI(t, "-file", writeExport(t, export))
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	for _, want := range []string{"Chat statistics: Overall", "Messages: 4", "Links shared: 1", "1. Alice: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_JSONForParticipant(t *testing.T) {
	t.Parallel()

	code, out, stderr := runCLI(t, "-file", writeExport(t, export), "-user", "Alice", "-format", "json")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if r.Filter != "Alice" || r.Stats.Messages != 2 || r.MostBusy != nil {
		t.Errorf("report = %+v", r)
	}
}

func TestRun_CSVToFile(t *testing.T) {
	t.Parallel()

	outPath := filepath.Join(t.TempDir(), "report.csv")
	code, out, stderr := runCLI(t, "-file", writeExport(t, export), "-format", "csv", "-out", outPath)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing when -out is set", out)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), report.SectionTopStats) {
		t.Errorf("CSV starts with %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestRun_Users(t *testing.T) {
	t.Parallel()

	code, out, _ := runCLI(t, "-file", writeExport(t, export), "-users")
	if code != 0 || out != "Alice\nBob\n" {
		t.Errorf("run(-users) = %d, %q", code, out)
	}
}

func TestRun_SQLiteArchive(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "reports.db")
	if code, _, stderr := runCLI(t, "-file", writeExport(t, export), "-sqlite", dbPath); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}

	db, err := database.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	defer database.CloseDB(db)

	rows, err := database.NewStore(db, nil).ListReports(context.Background(), "cli:chat.txt", 0)
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Messages != 4 {
		t.Errorf("archived rows = %+v", rows)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	valid := writeExport(t, export)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file flag", nil, "-file is required"},
		{"unknown format", []string{"-file", valid, "-format", "xml"}, "unknown format"},
		{"unreadable file", []string{"-file", filepath.Join(t.TempDir(), "nope.txt")}, "failed to read export"},
		{"not an export", []string{"-file", writeExport(t, "hello\nworld")}, "line 1"},
		{"bad timestamp", []string{"-file", writeExport(t, "13/45/23, 10:00 - Alice: hi")}, "line 1"},
		{"invalid utf-8", []string{"-file", writeExport(t, "1/1/23, 10:00 - Alice: \xff")}, "UTF-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, _, stderr := runCLI(t, tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
		})
	}
}

func TestRun_ParticipantNamedAll(t *testing.T) {
	t.Parallel()

	chat := "1/1/23, 10:00 - All: I am a person\n1/1/23, 10:01 - Bob: hi"
	code, out, stderr := runCLI(t, "-file", writeExport(t, chat), "-user", "=All", "-format", "json")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	var r report.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if r.Filter != "All" || r.Stats.Messages != 1 {
		t.Errorf("report filter = %q with %d messages, want All with 1", r.Filter, r.Stats.Messages)
	}
}

func TestRun_ArchiveBrowsing(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "reports.db")
	file := writeExport(t, export)
	for _, user := range []string{"", "Alice"} {
		if code, _, stderr := runCLI(t, "-file", file, "-user", user, "-sqlite", dbPath); code != 0 {
			t.Fatalf("archiving run exit code = %d, stderr = %s", code, stderr)
		}
	}

	code, out, stderr := runCLI(t, "-history", "-sqlite", dbPath)
	if code != 0 {
		t.Fatalf("-history exit code = %d, stderr = %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "cli:chat.txt  Alice: 2 messages") {
		t.Fatalf("-history output = %q", out)
	}
	id := strings.Fields(lines[1])[0]

	code, out, stderr = runCLI(t, "-show", id, "-sqlite", dbPath)
	if code != 0 {
		t.Fatalf("-show exit code = %d, stderr = %s", code, stderr)
	}
	for _, want := range []string{"Report " + id, "Filter: Overall", "Messages: 4", "\n" + report.SectionMostBusy + "\n  Alice: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("-show output missing %q:\n%s", want, out)
		}
	}

	if code, out, _ = runCLI(t, "-history", "-file", filepath.Join(t.TempDir(), "other.txt"), "-sqlite", dbPath); code != 0 || out != "No archived reports.\n" {
		t.Errorf("-history for another file = %d, %q", code, out)
	}

	code, out, stderr = runCLI(t, "-purge", "cli:chat.txt", "-sqlite", dbPath)
	if code != 0 || out != "Deleted 2 reports of cli:chat.txt\n" {
		t.Fatalf("-purge = %d, %q, stderr = %s", code, out, stderr)
	}
	if code, _, stderr = runCLI(t, "-show", id, "-sqlite", dbPath); code != 1 || !strings.Contains(stderr, "not found") {
		t.Errorf("-show after purge = %d, stderr = %s", code, stderr)
	}
}

func TestRun_ArchiveBrowsingErrors(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "reports.db")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no database", []string{"-history"}, "needs -sqlite"},
		{"two modes", []string{"-history", "-purge", "cli:x", "-sqlite", dbPath}, "mutually exclusive"},
		{"unknown id", []string{"-show", "missing", "-sqlite", dbPath}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, _, stderr := runCLI(t, tt.args...)
			if code != 1 || !strings.Contains(stderr, tt.want) {
				t.Errorf("run(%v) = %d, stderr = %q, want %q", tt.args, code, stderr, tt.want)
			}
		})
	}
}
