package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// ErrParse indicates the input bytes could not be decoded as a
// supported document format.
var ErrParse = errors.New("unreadable input file")

// SheetDelimiter prefixes each sheet section in the extracted text.
const SheetDelimiter = "--- Sheet: "

// SpreadsheetToCSV decodes a workbook and serializes every sheet, in
// workbook order, as a delimiter line followed by comma-separated rows.
func SpreadsheetToCSV(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	var out strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("%w: sheet %s: %v", ErrParse, sheet, err)
		}
		out.WriteString("\n")
		out.WriteString(SheetDelimiter)
		out.WriteString(sheet)
		out.WriteString(" ---\n")
		if err := writeCSV(&out, rows); err != nil {
			return "", fmt.Errorf("%w: sheet %s: %v", ErrParse, sheet, err)
		}
	}
	return out.String(), nil
}

// PDFText extracts the plain text of a PDF for the text transmission
// mode; inline transmission sends the raw bytes instead.
func PDFText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	return buf.String(), nil
}

// IsSpreadsheet reports whether the file name carries a spreadsheet
// extension. Type acceptance is enforced at the upload boundary; this
// only picks the transmission branch.
func IsSpreadsheet(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xls", ".xlsx":
		return true
	default:
		return false
	}
}

func writeCSV(out *strings.Builder, rows [][]string) error {
	w := csv.NewWriter(out)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
