// Package main contains the chatstat command line tool, which analyses a
// WhatsApp chat export and prints or saves the report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/edgard/chatstat/internal/config"
	"github.com/edgard/chatstat/internal/database"
	"github.com/edgard/chatstat/internal/logger"
	"github.com/edgard/chatstat/internal/metrics"
	"github.com/edgard/chatstat/internal/report"
	"github.com/edgard/chatstat/internal/transcript"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatCSV  = "csv"
)

// options are the parsed command line flags.
type options struct {
	file       string
	user       string
	format     string
	out        string
	sqlite     string
	users      bool
	configPath string

	history bool
	show    string
	purge   string
}

// browsing reports whether the flags ask for the report archive rather than
// a new analysis.
func (o options) browsing() bool {
	return o.history || o.show != "" || o.purge != ""
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(exitCode)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("chatstat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "WhatsApp chat export to analyse (required unless browsing the archive)")
	fs.StringVar(&opts.user, "user", "", "Participant to report on; empty or \"all\" for the whole chat, \"=All\" for someone named All")
	fs.StringVar(&opts.format, "format", formatText, "Output format: text, json or csv")
	fs.StringVar(&opts.out, "out", "", "Write the report to this file instead of stdout")
	fs.StringVar(&opts.sqlite, "sqlite", "", "Archive the report in this SQLite database")
	fs.BoolVar(&opts.users, "users", false, "List the participants and exit")
	fs.StringVar(&opts.configPath, "config", "", "Optional configuration file")
	fs.BoolVar(&opts.history, "history", false, "List archived reports, only those of -file when it is set")
	fs.StringVar(&opts.show, "show", "", "Print the archived report with this id")
	fs.StringVar(&opts.purge, "purge", "", "Delete every archived report of this source, e.g. cli:chat.txt")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	modes := 0
	for _, set := range []bool{opts.history, opts.show != "", opts.purge != ""} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return options{}, errors.New("-history, -show and -purge are mutually exclusive")
	}
	if opts.file == "" && modes == 0 {
		return options{}, errors.New("-file is required")
	}
	switch opts.format {
	case formatText, formatJSON, formatCSV:
	default:
		return options{}, fmt.Errorf("unknown format %q", opts.format)
	}
	return opts, nil
}

// run executes one analysis and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "chatstat: %v\n", err)
		return 1
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "chatstat: %v\n", err)
		return 1
	}
	if opts.sqlite != "" {
		cfg.Database.Path = opts.sqlite
	}

	log := logger.NewLoggerWithWriter(stderr, cfg.Logger.Level, cfg.Logger.JSON)

	action := analyse
	if opts.browsing() {
		action = browse
	}
	if err := action(ctx, cfg, opts, stdout, log); err != nil {
		log.Error("chatstat failed", "file", opts.file, "error", err)
		return 1
	}
	return 0
}

func analyse(ctx context.Context, cfg *config.Config, opts options, stdout io.Writer, log *slog.Logger) error {
	raw, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}
	text, err := transcript.Decode(raw)
	if err != nil {
		return err
	}
	recs, err := transcript.Parse(text)
	if err != nil {
		return err
	}
	log.Debug("Parsed export", "file", opts.file, "records", len(recs))

	out := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if opts.users {
		_, err := io.WriteString(out, strings.Join(recs.Senders(), "\n")+"\n")
		return err
	}

	f := metrics.ParseFilter(opts.user)
	if !f.IsAll() && !recs.HasSender(f.Name()) {
		log.Warn("Participant has no messages in this chat", "user", f.Name())
	}

	reportOpts, err := report.NewOptions(cfg.Analysis, log)
	if err != nil {
		return err
	}
	r, err := report.Build(recs, f, reportOpts)
	if err != nil {
		return err
	}

	switch opts.format {
	case formatJSON:
		err = report.WriteJSON(out, r)
	case formatCSV:
		err = report.WriteCSV(out, r)
	default:
		_, err = io.WriteString(out, report.Summary(r))
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.Database.Path != "" {
		return archive(ctx, cfg.Database.Path, cliSource(opts.file), r, log)
	}
	return nil
}

// cliSource is the archive key of reports built from file.
func cliSource(file string) string {
	return "cli:" + filepath.Base(file)
}

func archive(ctx context.Context, path, source string, r *report.Report, log *slog.Logger) error {
	db, err := database.NewDB(path)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	id, err := database.NewStore(db, log).SaveReport(ctx, source, r)
	if err != nil {
		return err
	}
	log.Info("Report archived", "path", path, "report_id", id, "source", source)
	return nil
}
