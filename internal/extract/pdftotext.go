package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/normalize"
)

// PDFToText extracts layout-preserving text with poppler's pdftotext.
type PDFToText struct {
	bin    string
	runner Runner
	logger *slog.Logger
}

// NewPDFToText creates the extractor. An empty bin means "pdftotext" on PATH and a
// nil runner means ExecRunner.
func NewPDFToText(bin string, runner Runner, logger *slog.Logger) *PDFToText {
	if logger == nil {
		logger = slog.Default()
	}
	if bin == "" {
		bin = "pdftotext"
	}
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}
	return &PDFToText{bin: bin, runner: runner, logger: logger}
}

func (p *PDFToText) Extract(ctx context.Context, data []byte) (string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix - -
	out, errb, err := p.runner.Run(ctx, data, p.bin, "-layout", "-enc", "UTF-8", "-eol", "unix", "-", "-")
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		return "", common.NewAppError("PDFTOTEXT_FAILED", fmt.Sprintf("pdftotext: %s", msg), fmt.Errorf("%w: %v", common.ErrExtraction, err))
	}
	text := normalize.Text(string(out))
	// pdftotext separates pages with a form feed, which normalize.Text folds to a newline.
	p.logger.Debug("pdftotext extracted", "pages", 1+strings.Count(string(out), "\f"), "chars", len(text))
	return text, nil
}
