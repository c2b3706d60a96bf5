package sellout

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReportFile_CSVReads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "r.csv")
	content := "Codigo,Canal\nA1,ecom\nA2,trad\nA1,ecom\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := ReportFile{Path: path, Sheet: SheetCSV}

	headers, err := f.Headers()
	if err != nil {
		t.Fatalf("Headers: %v", err)
	}
	if !reflect.DeepEqual(headers, []string{"Codigo", "Canal"}) {
		t.Fatalf("headers = %v", headers)
	}

	col, err := f.Column(1)
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if !reflect.DeepEqual(col, []string{"ecom", "trad", "ecom"}) {
		t.Fatalf("column = %v", col)
	}

	h, rows, err := f.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(h) != 2 || len(rows) != 3 {
		t.Fatalf("rows = %d header cols = %d", len(rows), len(h))
	}
}

func TestReportFile_RaggedRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "r.csv")
	if err := os.WriteFile(path, []byte("a,b,c\n1,2\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := ReportFile{Path: path, Sheet: SheetCSV}
	col, err := f.Column(2)
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if col[0] != "" {
		t.Fatalf("short row should yield empty cell, got %q", col[0])
	}
}

func TestReportFile_XLSXColumn(t *testing.T) {
	t.Parallel()

	wb := excelize.NewFile()
	wb.SetSheetRow("Sheet1", "A1", &[]interface{}{"Codigo", "Canal"})
	wb.SetSheetRow("Sheet1", "A2", &[]interface{}{"A1", "ecom"})
	wb.SetSheetRow("Sheet1", "A3", &[]interface{}{"A2", "trad"})
	path := filepath.Join(t.TempDir(), "r.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	wb.Close()

	f := ReportFile{Path: path, Sheet: "Sheet1"}
	col, err := f.Column(1)
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if !reflect.DeepEqual(col, []string{"ecom", "trad"}) {
		t.Fatalf("column = %v", col)
	}
	headers, err := f.Headers()
	if err != nil {
		t.Fatalf("Headers: %v", err)
	}
	if !reflect.DeepEqual(headers, []string{"Codigo", "Canal"}) {
		t.Fatalf("headers = %v", headers)
	}
}

func TestSheetNames_CSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "r.csv")
	if err := os.WriteFile(path, []byte("a\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	names, err := SheetNames(path)
	if err != nil {
		t.Fatalf("SheetNames: %v", err)
	}
	if !reflect.DeepEqual(names, []string{SheetCSV}) {
		t.Fatalf("names = %v", names)
	}
}

func TestSheetNames_UnsupportedType(t *testing.T) {
	t.Parallel()

	if _, err := SheetNames("report.pdf"); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
