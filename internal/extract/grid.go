package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/po-extract/internal/common"
)

// XLSXReader reads the first sheet of an .xlsx/.xlsm workbook. Cells come back
// raw, so dates stay serial numbers for the date normalizer.
type XLSXReader struct {
	logger *slog.Logger
}

func NewXLSXReader(logger *slog.Logger) *XLSXReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXReader{logger: logger}
}

func (x *XLSXReader) ReadGrid(_ context.Context, data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, common.NewAppError("XLSX_OPEN_FAILED", "open workbook", fmt.Errorf("%w: %v", common.ErrExtraction, err))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			x.logger.Warn("closing workbook", "error", cerr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.NewAppError("XLSX_EMPTY", "workbook has no sheets", common.ErrExtraction)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, common.NewAppError("XLSX_READ_FAILED", "read rows", fmt.Errorf("%w: %v", common.ErrExtraction, err))
	}
	x.logger.Debug("xlsx read", "sheet", sheets[0], "rows", len(rows))
	return rows, nil
}

// XLSReader reads the first sheet of a legacy BIFF .xls workbook.
type XLSReader struct {
	logger *slog.Logger
}

func NewXLSReader(logger *slog.Logger) *XLSReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSReader{logger: logger}
}

func (x *XLSReader) ReadGrid(_ context.Context, data []byte) (rows [][]string, err error) {
	// The BIFF decoder panics on truncated records.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, common.NewAppError("XLS_OPEN_FAILED", "malformed workbook", fmt.Errorf("%w: %v", common.ErrExtraction, r))
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, common.NewAppError("XLS_OPEN_FAILED", "open workbook", fmt.Errorf("%w: %v", common.ErrExtraction, err))
	}
	if len(workbook.GetSheets()) == 0 {
		return nil, common.NewAppError("XLS_EMPTY", "workbook has no sheets", common.ErrExtraction)
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, common.NewAppError("XLS_READ_FAILED", "read sheet", fmt.Errorf("%w: %v", common.ErrExtraction, err))
	}

	for _, row := range sheet.GetRows() {
		cells := make([]string, 0, len(row.GetCols()))
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	x.logger.Debug("xls read", "rows", len(rows))
	return rows, nil
}
