// Package extract turns raw document bytes into the text or grid the parser
// consumes. It is the only place that decodes PDF and spreadsheet files.
package extract

import (
	"context"
)

// TextExtractor turns a document into plain text with its column layout kept.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// GridReader turns a spreadsheet into rows of cell strings.
type GridReader interface {
	ReadGrid(ctx context.Context, data []byte) ([][]string, error)
}

// TextExtractorFunc adapts a function to TextExtractor.
type TextExtractorFunc func(ctx context.Context, data []byte) (string, error)

func (f TextExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}
