package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/normalize"
)

const (
	rowTolerance = 2.0 // points between baselines of one row
	wideGapRatio = 1.5 // gap/font size above which a column break is written
	wordGapRatio = 0.2
)

// NativePDF extracts text in-process. Glyphs are regrouped into rows by baseline
// and wide horizontal gaps become multi-space column breaks, approximating
// pdftotext -layout.
type NativePDF struct {
	logger *slog.Logger
}

func NewNativePDF(logger *slog.Logger) *NativePDF {
	if logger == nil {
		logger = slog.Default()
	}
	return &NativePDF{logger: logger}
}

type glyphRow struct {
	y      float64
	glyphs []pdf.Text
}

func (n *NativePDF) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The decoder panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", common.NewAppError("PDF_DECODE_FAILED", "malformed pdf", fmt.Errorf("%w: %v", common.ErrExtraction, r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", common.NewAppError("PDF_DECODE_FAILED", "open pdf", fmt.Errorf("%w: %v", common.ErrExtraction, err))
	}

	var pages []string
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pages = append(pages, layoutPage(p.Content().Text))
	}
	n.logger.Debug("native pdf extracted", "pages", total)
	return normalize.Text(strings.Join(pages, "\n")), nil
}

// layoutPage renders one page's glyphs top to bottom, left to right.
func layoutPage(texts []pdf.Text) string {
	rows := groupRows(texts)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, renderRow(row.glyphs))
	}
	return strings.Join(lines, "\n")
}

func groupRows(texts []pdf.Text) []glyphRow {
	var rows []glyphRow
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) < rowTolerance {
				rows[i].glyphs = append(rows[i].glyphs, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, glyphRow{y: t.Y, glyphs: []pdf.Text{t}})
		}
	}
	// PDF user space grows upward.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	return rows
}

func renderRow(glyphs []pdf.Text) string {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })
	var b strings.Builder
	var prevEnd float64
	for i, g := range glyphs {
		if i > 0 {
			size := g.FontSize
			if size <= 0 {
				size = 10
			}
			switch gap := g.X - prevEnd; {
			case gap > size*wideGapRatio:
				b.WriteString("   ")
			case gap > size*wordGapRatio:
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
		prevEnd = g.X + g.W
	}
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
