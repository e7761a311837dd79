package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/po-extract/internal/normalize"
)

// Fallback tries each extractor in order and returns the first non-blank text.
type Fallback struct {
	extractors []TextExtractor
	logger     *slog.Logger
}

func NewFallback(logger *slog.Logger, extractors ...TextExtractor) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{extractors: extractors, logger: logger}
}

func (f *Fallback) Extract(ctx context.Context, data []byte) (string, error) {
	var lastErr error
	for i, e := range f.extractors {
		text, err := e.Extract(ctx, data)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err != nil {
			lastErr = err
			f.logger.Warn("text extractor failed, trying next", "index", i, "error", err)
		}
	}
	return "", lastErr
}

// PlainText passes .txt content through the text normalizer.
type PlainText struct{}

func (PlainText) Extract(_ context.Context, data []byte) (string, error) {
	return normalize.Text(strings.TrimPrefix(string(data), "\ufeff")), nil
}
