package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/po-extract/constants"
	"github.com/joseph-ayodele/po-extract/internal/entity"
	"github.com/joseph-ayodele/po-extract/internal/extract"
	"github.com/joseph-ayodele/po-extract/internal/parser"
	"github.com/joseph-ayodele/po-extract/internal/schema"
)

// Document is extracted input for the engine: text or a grid, never both.
type Document struct {
	Format constants.Format
	Text   string
	Grid   [][]string
}

// ExtractStage turns file bytes into a Document.
type ExtractStage struct {
	Extractors *extract.Set
	Logger     *slog.Logger
	Timeout    time.Duration // per document; zero means no limit
}

func NewExtractStage(set *extract.Set, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{Extractors: set, Logger: logger}
}

func (s *ExtractStage) Run(ctx context.Context, format constants.Format, data []byte) (Document, error) {
	doc := Document{Format: format}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if format.IsGrid() {
		r, err := s.Extractors.GridFor(format)
		if err != nil {
			return doc, err
		}
		if doc.Grid, err = r.ReadGrid(ctx, data); err != nil {
			return doc, err
		}
		s.Logger.Debug("grid extracted", "format", format, "rows", len(doc.Grid))
		return doc, nil
	}

	e, err := s.Extractors.TextFor(format)
	if err != nil {
		return doc, err
	}
	if doc.Text, err = e.Extract(ctx, data); err != nil {
		return doc, err
	}
	s.Logger.Debug("text extracted", "format", format, "chars", len(doc.Text))
	return doc, nil
}

// Review reasons recorded when a result needs a human look.
const (
	ReviewNoItems    = "no_items"
	ReviewNoPONumber = "no_po_number"
	ReviewSchema     = "schema_invalid"
)

// Parsed is the engine output with its serialized form and review verdict.
type Parsed struct {
	Result        entity.ParseResult
	JSON          json.RawMessage
	ReviewReasons []string
}

// NeedsReview reports whether any review reason applies.
func (p Parsed) NeedsReview() bool { return len(p.ReviewReasons) > 0 }

// ParseStage runs the engine and validates its output.
type ParseStage struct {
	Engine *parser.Engine
	Logger *slog.Logger
}

func NewParseStage(engine *parser.Engine, logger *slog.Logger) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = parser.NewEngine(logger)
	}
	return &ParseStage{Engine: engine, Logger: logger}
}

func (s *ParseStage) Run(doc Document) (Parsed, error) {
	var res entity.ParseResult
	if doc.Format.IsGrid() {
		res = s.Engine.ParseGrid(doc.Grid)
	} else {
		res = s.Engine.ParseText(doc.Text)
	}

	b, err := json.Marshal(res)
	if err != nil {
		return Parsed{}, fmt.Errorf("marshal result: %w", err)
	}
	out := Parsed{Result: res, JSON: b}

	if len(res.Items) == 0 {
		out.ReviewReasons = append(out.ReviewReasons, ReviewNoItems)
	}
	if strings.TrimSpace(res.Header.PONumber) == "" {
		out.ReviewReasons = append(out.ReviewReasons, ReviewNoPONumber)
	}
	// A schema mismatch flags the run; the result is still stored.
	if verr := schema.ValidateParseResult(b); verr != nil {
		s.Logger.Warn("parse result failed schema validation", "error", verr)
		out.ReviewReasons = append(out.ReviewReasons, ReviewSchema)
	}
	return out, nil
}
