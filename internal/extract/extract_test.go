package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/po-extract/constants"
	"github.com/joseph-ayodele/po-extract/internal/common"
)

type stubRunner struct {
	stdout, stderr []byte
	err            error

	gotStdin []byte
	gotName  string
	gotArgs  []string
}

func (s *stubRunner) Run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	s.gotStdin, s.gotName, s.gotArgs = stdin, name, args
	return s.stdout, s.stderr, s.err
}

func TestPDFToText_Extract(t *testing.T) {
	r := &stubRunner{stdout: []byte("PO No: 1\r\nItem   Description   Qty   \fpage two\n")}
	p := NewPDFToText("/opt/bin/pdftotext", r, nil)

	text, err := p.Extract(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "PO No: 1\nItem   Description   Qty\npage two\n", text)
	assert.Equal(t, "/opt/bin/pdftotext", r.gotName)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "-", "-"}, r.gotArgs)
	assert.Equal(t, []byte("%PDF-1.4"), r.gotStdin)
}

func TestPDFToText_Failure(t *testing.T) {
	r := &stubRunner{stderr: []byte("Syntax Error: Couldn't find trailer\n"), err: errors.New("exit status 1")}
	_, err := NewPDFToText("", r, nil).Extract(context.Background(), []byte("junk"))

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.Contains(t, err.Error(), "Couldn't find trailer")
	assert.Equal(t, "pdftotext", r.gotName)
}

func TestFallback(t *testing.T) {
	failing := TextExtractorFunc(func(context.Context, []byte) (string, error) {
		return "", errors.New("no binary")
	})
	blank := TextExtractorFunc(func(context.Context, []byte) (string, error) { return "  \n", nil })
	good := TextExtractorFunc(func(context.Context, []byte) (string, error) { return "text", nil })

	got, err := NewFallback(nil, failing, blank, good).Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "text", got)

	_, err = NewFallback(nil, blank, failing).Extract(context.Background(), nil)
	assert.EqualError(t, err, "no binary")
}

func TestPlainText(t *testing.T) {
	got, err := PlainText{}.Extract(context.Background(), []byte("\ufeffline one  \r\nline\ttwo"))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline    two", got)
}

func TestNativePDF_Invalid(t *testing.T) {
	_, err := NewNativePDF(nil).Extract(context.Background(), []byte("not a pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtraction)
}

func TestLayoutPage(t *testing.T) {
	glyphs := []pdf.Text{
		{S: "12", X: 200, Y: 700, W: 10, FontSize: 10},
		{S: "Bolt", X: 60, Y: 700.5, W: 20, FontSize: 10},
		{S: "A1", X: 10, Y: 700, W: 10, FontSize: 10},
		{S: "hex", X: 83, Y: 700, W: 15, FontSize: 10},
		{S: "Item", X: 10, Y: 720, W: 20, FontSize: 10},
	}
	assert.Equal(t, "Item\nA1   Bolt hex   12", layoutPage(glyphs))
}

func TestXLSXReader(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Drawing No", "Description", "Qty"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"DRW-1", "Bracket", 5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := NewXLSXReader(nil).ReadGrid(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Drawing No", "Description", "Qty"},
		{"DRW-1", "Bracket", "5"},
	}, rows)
}

func TestGridReaders_Invalid(t *testing.T) {
	_, err := NewXLSXReader(nil).ReadGrid(context.Background(), []byte("nope"))
	assert.ErrorIs(t, err, common.ErrExtraction)

	_, err = NewXLSReader(nil).ReadGrid(context.Background(), []byte("nope"))
	assert.ErrorIs(t, err, common.ErrExtraction)
}

func TestNewSet(t *testing.T) {
	for _, backend := range []string{common.PDFBackendPDFToText, common.PDFBackendNative, common.PDFBackendAuto} {
		s, err := NewSet(common.ExtractConfig{PDFBackend: backend}, &stubRunner{}, nil)
		require.NoError(t, err, backend)
		require.NotNil(t, s.PDF)
	}

	_, err := NewSet(common.ExtractConfig{PDFBackend: "ocr"}, nil, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSet_ForFormat(t *testing.T) {
	s, err := NewSet(common.ExtractConfig{PDFBackend: common.PDFBackendNative}, nil, nil)
	require.NoError(t, err)

	_, err = s.TextFor(constants.PDF)
	assert.NoError(t, err)
	_, err = s.TextFor(constants.TEXT)
	assert.NoError(t, err)
	_, err = s.TextFor(constants.XLSX)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)

	_, err = s.GridFor(constants.XLS)
	assert.NoError(t, err)
	_, err = s.GridFor(constants.OTHER)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}
