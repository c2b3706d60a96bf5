package sellout

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// SheetCSV is the sheet sentinel for plain CSV uploads, which have no
// workbook structure.
const SheetCSV = "csv"

// ReportFile is an uploaded report on disk. The wizard reads it three times:
// header row only, a single preview column, and the full dataset at commit.
type ReportFile struct {
	Path  string
	Sheet string
}

// SheetNames lists the sheets of an uploaded workbook so the user can pick
// one. CSV files report the single pseudo-sheet.
func SheetNames(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return []string{SheetCSV}, nil
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return f.GetSheetList(), nil
	case ".xls":
		wb, err := xls.Open(path, "utf-8")
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, wb.NumSheets())
		for i := 0; i < wb.NumSheets(); i++ {
			if sh := wb.GetSheet(i); sh != nil {
				names = append(names, sh.Name)
			}
		}
		return names, nil
	}
	return nil, errors.New("unsupported file type")
}

// Headers returns the first row of the selected sheet.
func (f ReportFile) Headers() ([]string, error) {
	rows, err := f.readRows(1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("file has no header row")
	}
	return rows[0], nil
}

// Column returns the data values (header excluded) of one column. The sheet
// is streamed and only the projected field is retained, so the channel and
// SKU previews never hold the whole dataset in memory.
func (f ReportFile) Column(col int) ([]string, error) {
	out := []string{}
	header := true
	err := f.scan(func(row []string) bool {
		if header {
			header = false
			return true
		}
		v := ""
		if col < len(row) {
			v = row[col]
		}
		out = append(out, v)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Rows reads the full sheet, split into the header row and data rows.
func (f ReportFile) Rows() ([]string, [][]string, error) {
	rows, err := f.readRows(0)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("file has no header row")
	}
	return rows[0], rows[1:], nil
}

// readRows reads up to limit rows (0 = all) from the underlying file.
func (f ReportFile) readRows(limit int) ([][]string, error) {
	var rows [][]string
	err := f.scan(func(row []string) bool {
		rows = append(rows, row)
		return limit == 0 || len(rows) < limit
	})
	return rows, err
}

// scan streams the rows of the selected sheet to fn. fn returns false to stop
// early.
func (f ReportFile) scan(fn func(row []string) bool) error {
	if f.Sheet == SheetCSV || strings.ToLower(filepath.Ext(f.Path)) == ".csv" {
		return f.scanCSV(fn)
	}
	if strings.ToLower(filepath.Ext(f.Path)) == ".xls" {
		return f.scanXLS(fn)
	}
	return f.scanXLSX(fn)
}

func (f ReportFile) scanCSV(fn func([]string) bool) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer file.Close()
	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	for {
		rec, err := r.Read()
		if err != nil {
			return nil
		}
		if !fn(rec) {
			return nil
		}
	}
}

func (f ReportFile) scanXLSX(fn func([]string) bool) error {
	wb, err := excelize.OpenFile(f.Path)
	if err != nil {
		return err
	}
	defer wb.Close()
	sheet := f.Sheet
	if sheet == "" {
		sheet = wb.GetSheetName(0)
	}
	iter, err := wb.Rows(sheet)
	if err != nil {
		return err
	}
	defer iter.Close()
	for iter.Next() {
		row, err := iter.Columns()
		if err != nil {
			return err
		}
		if !fn(row) {
			return nil
		}
	}
	return iter.Error()
}

func (f ReportFile) scanXLS(fn func([]string) bool) error {
	wb, err := xls.Open(f.Path, "utf-8")
	if err != nil {
		return err
	}
	var sheet *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		sh := wb.GetSheet(i)
		if sh != nil && (f.Sheet == "" || sh.Name == f.Sheet) {
			sheet = sh
			break
		}
	}
	if sheet == nil {
		return errors.New("sheet not found: " + f.Sheet)
	}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			if !fn(nil) {
				return nil
			}
			continue
		}
		vals := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			vals[j] = row.Col(j)
		}
		if !fn(vals) {
			return nil
		}
	}
	return nil
}
