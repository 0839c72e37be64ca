package report

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/edgard/chatstat/internal/config"
	"github.com/edgard/chatstat/internal/metrics"
)

// Options controls the size of the ranked sections.
type Options struct {
	TopUsers  int
	TopWords  int
	TopEmojis int
	StopWords metrics.StopWords
	Logger    *slog.Logger
}

// DefaultOptions returns the limits used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		TopUsers:  config.DefaultTopUsers,
		TopWords:  config.DefaultTopWords,
		TopEmojis: config.DefaultTopEmojis,
		StopWords: metrics.DefaultStopWords(),
	}
}

// NewOptions builds Options from the analysis settings. A configured stop
// word file replaces the built-in list.
func NewOptions(cfg config.AnalysisConfig, logger *slog.Logger) (Options, error) {
	opts := Options{
		TopUsers:  cfg.TopUsers,
		TopWords:  cfg.TopWords,
		TopEmojis: cfg.TopEmojis,
		StopWords: metrics.DefaultStopWords(),
		Logger:    logger,
	}
	if cfg.StopWordsFile == "" {
		return opts, nil
	}

	f, err := os.Open(cfg.StopWordsFile)
	if err != nil {
		return Options{}, fmt.Errorf("failed to open stop words file: %w", err)
	}
	defer f.Close()

	stop, err := metrics.LoadStopWords(f)
	if err != nil {
		return Options{}, err
	}
	opts.StopWords = stop
	if logger != nil {
		logger.Info("Loaded custom stop words", "path", cfg.StopWordsFile, "count", len(stop))
	}
	return opts, nil
}
