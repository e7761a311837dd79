// Package parser turns purchase order text or spreadsheet grids into a canonical
// ParseResult. It performs no I/O; callers extract text or read grids first.
package parser

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/po-extract/internal/company"
	"github.com/joseph-ayodele/po-extract/internal/entity"
	"github.com/joseph-ayodele/po-extract/internal/normalize"
)

// Engine parses documents. The zero value is not usable; use NewEngine.
// An Engine is safe for concurrent use.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an Engine. A nil logger falls back to slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

var defaultEngine = NewEngine(nil)

// ParseTextDocument parses text already extracted from a PDF.
func ParseTextDocument(content string) entity.ParseResult {
	return defaultEngine.ParseText(content)
}

// ParseGridDocument parses rows already read from a spreadsheet.
func ParseGridDocument(rows [][]string) entity.ParseResult {
	return defaultEngine.ParseGrid(rows)
}

func profileFor(text string) *company.Profile {
	if p, ok := company.DetectProfile(text); ok {
		return &p
	}
	return nil
}

// finish applies item defaults and guarantees a non-nil item slice.
func finish(header entity.HeaderFields, items []entity.LineItem) entity.ParseResult {
	out := make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Description) == "" {
			continue
		}
		it.ApplyDefaults(len(out) + 1)
		out = append(out, it)
	}
	return entity.ParseResult{Header: header, Items: out}
}

// ParseText parses a text document.
func (e *Engine) ParseText(content string) entity.ParseResult {
	text := normalize.Text(content)
	sec := Segment(text)

	profile := profileFor(sec.HeaderText + "\n" + sec.FooterText)
	header := ExtractHeader(sec.HeaderText, sec.FooterText, profile)

	if !sec.HeaderFound {
		e.logger.Debug("no table header line; header only",
			"company", header.CompanyCode)
		return finish(header, nil)
	}

	sanitized := SanitizeLines(sec.TableLines)
	in := tableInput{
		sanitized: sanitized,
		rows:      ChunkRows(sanitized),
		profile:   profile,
	}
	name, items := runTiers(textTiers, in)
	e.logger.Debug("text items extracted",
		"company", header.CompanyCode,
		"tier", name,
		"rows", len(in.rows),
		"items", len(items))
	return finish(header, items)
}

// ParseGrid parses a spreadsheet grid.
func (e *Engine) ParseGrid(rows [][]string) entity.ParseResult {
	headerIdx := FindHeaderRow(rows)
	if headerIdx < 0 {
		headerText := normalize.Text(joinRows(rows))
		profile := profileFor(headerText)
		header := ExtractHeader(headerText, "", profile)

		tierName := TierGeneric
		items := gridGenericTier(rows)
		if len(items) == 0 {
			tierName = TierPositional
			items = positionalTier(rows)
		}
		e.logger.Debug("grid items extracted without header row",
			"company", header.CompanyCode,
			"tier", tierName,
			"items", len(items))
		return finish(header, items)
	}

	body, footerIdx := gridBody(rows, headerIdx)
	headerText := normalize.Text(joinRows(rows[:headerIdx]))
	footerText := normalize.Text(joinRows(rows[footerIdx:]))
	profile := profileFor(headerText + "\n" + footerText)
	header := ExtractHeader(headerText, footerText, profile)

	cm := BuildColumnMap(rows[headerIdx])
	items := columnMapTier(body, cm)
	e.logger.Debug("grid items extracted",
		"company", header.CompanyCode,
		"tier", TierColumnMap,
		"header_row", headerIdx,
		"columns", cm.Len(),
		"items", len(items))
	return finish(header, items)
}
