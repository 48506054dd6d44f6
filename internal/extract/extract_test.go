package extract

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets map[string][][]string, order []string) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestSpreadsheetToCSV_OneMarkerPerSheet(t *testing.T) {
	order := []string{"Jan", "Feb"}
	data := buildWorkbook(t, map[string][][]string{
		"Jan": {{"warehouse", "bags"}, {"ANTWERP", "12000"}},
		"Feb": {{"warehouse", "bags"}, {"HAMBURG", "9500"}},
	}, order)

	text, err := SpreadsheetToCSV(data)
	if err != nil {
		t.Fatalf("SpreadsheetToCSV: %v", err)
	}

	if got := strings.Count(text, SheetDelimiter); got != len(order) {
		t.Fatalf("expected %d sheet markers, got %d", len(order), got)
	}

	// Markers must appear in workbook order.
	janIdx := strings.Index(text, SheetDelimiter+"Jan ---")
	febIdx := strings.Index(text, SheetDelimiter+"Feb ---")
	if janIdx < 0 || febIdx < 0 {
		t.Fatalf("missing sheet marker: jan=%d feb=%d", janIdx, febIdx)
	}
	if janIdx > febIdx {
		t.Fatalf("sheet markers out of workbook order: jan=%d feb=%d", janIdx, febIdx)
	}

	if !strings.Contains(text, "ANTWERP,12000") {
		t.Fatalf("expected csv row in output, got:\n%s", text)
	}
}

func TestSpreadsheetToCSV_UndecodableInput(t *testing.T) {
	_, err := SpreadsheetToCSV([]byte("this is not a workbook"))
	if err == nil {
		t.Fatal("expected error for non-spreadsheet input")
	}
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestPDFText_Undecodable(t *testing.T) {
	_, err := PDFText([]byte("not a pdf"))
	if err == nil {
		t.Fatal("expected error for non-pdf input")
	}
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestIsSpreadsheet(t *testing.T) {
	cases := map[string]bool{
		"report.xlsx":       true,
		"report.XLS":        true,
		"stock_report.pdf":  false,
		"no-extension":      false,
		"archive.xlsx.gpg":  false,
		"weekly.report.xls": true,
	}
	for name, want := range cases {
		if got := IsSpreadsheet(name); got != want {
			t.Errorf("IsSpreadsheet(%q) = %v, want %v", name, got, want)
		}
	}
}
