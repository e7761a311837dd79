package extract

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/po-extract/constants"
	"github.com/joseph-ayodele/po-extract/internal/common"
)

// Set holds the extractor for every supported format.
type Set struct {
	PDF  TextExtractor
	Text TextExtractor
	XLSX GridReader
	XLS  GridReader
}

// NewSet wires the extractors for cfg. backend selects the PDF path: pdftotext,
// native, or auto (pdftotext first, native when it fails or yields nothing).
func NewSet(cfg common.ExtractConfig, runner Runner, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var pdfText TextExtractor
	switch cfg.PDFBackend {
	case common.PDFBackendPDFToText:
		pdfText = NewPDFToText(cfg.PDFToTextBin, runner, logger)
	case common.PDFBackendNative:
		pdfText = NewNativePDF(logger)
	case common.PDFBackendAuto, "":
		pdfText = NewFallback(logger, NewPDFToText(cfg.PDFToTextBin, runner, logger), NewNativePDF(logger))
	default:
		return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown pdf backend %q", cfg.PDFBackend), common.ErrInvalidInput)
	}
	return &Set{
		PDF:  pdfText,
		Text: PlainText{},
		XLSX: NewXLSXReader(logger),
		XLS:  NewXLSReader(logger),
	}, nil
}

// TextFor returns the text extractor for a text-modality format.
func (s *Set) TextFor(f constants.Format) (TextExtractor, error) {
	switch f {
	case constants.PDF:
		return s.PDF, nil
	case constants.TEXT:
		return s.Text, nil
	}
	return nil, fmt.Errorf("%w: no text extractor for %s", common.ErrUnsupportedFormat, f)
}

// GridFor returns the grid reader for a spreadsheet format.
func (s *Set) GridFor(f constants.Format) (GridReader, error) {
	switch f {
	case constants.XLSX:
		return s.XLSX, nil
	case constants.XLS:
		return s.XLS, nil
	}
	return nil, fmt.Errorf("%w: no grid reader for %s", common.ErrUnsupportedFormat, f)
}
