package sellout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ventas.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

var baseMapping = ColumnMapping{
	FieldSku:        "Codigo",
	FieldClientCode: "Cliente",
	FieldDate:       "Fecha",
	FieldCostTotal:  "Venta Costo",
}

func TestBuildRecords_ThreeRowsNoChannel(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, strings.Join([]string{
		"Codigo,Cliente,Fecha,Venta Costo,Extra",
		"A1,1001,2026-01-15,\"1.234,56\",x",
		"A2,1002,2026-01-16,\"1,234.56\",y",
		"A3,1003,2026-01-17,500,z",
	}, "\n"))

	sess := WizardSession{FilePath: path, Sheet: SheetCSV, Mapping: baseMapping}
	records, err := BuildRecords(sess, "maria")
	if err != nil {
		t.Fatalf("BuildRecords: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, rec := range records {
		if rec.Channel != nil {
			t.Fatalf("record %d: channel should be null when column unmapped", i)
		}
		if rec.GrossTotal != nil || rec.Quantity != nil {
			t.Fatalf("record %d: unmapped optional fields should be nil", i)
		}
		if rec.CreatedBy != "maria" {
			t.Fatalf("record %d: missing user stamp", i)
		}
	}
	if records[0].CostTotal.InexactFloat64() != 1234.56 {
		t.Fatalf("latin amount = %v", records[0].CostTotal)
	}
	if records[1].CostTotal.InexactFloat64() != 1234.56 {
		t.Fatalf("anglo amount = %v", records[1].CostTotal)
	}
	if records[2].ClientCode != 1003 {
		t.Fatalf("client code = %d", records[2].ClientCode)
	}
	if records[0].Date == nil || records[0].Date.Format("2006-01-02") != "2026-01-15" {
		t.Fatalf("date = %v", records[0].Date)
	}
}

func TestBuildRecords_AppliesSkuCorrections(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, strings.Join([]string{
		"Codigo,Cliente,Fecha,Venta Costo",
		"X99,1001,2026-02-01,100",
		"A1,1002,2026-02-02,200",
		"X99,1003,2026-02-03,300",
	}, "\n"))

	sess := WizardSession{
		FilePath:    path,
		Sheet:       SheetCSV,
		Mapping:     baseMapping,
		Corrections: CorrectionTable{"X99": "X100"},
	}
	records, err := BuildRecords(sess, "maria")
	if err != nil {
		t.Fatalf("BuildRecords: %v", err)
	}
	// corrections apply to every occurrence, not just the first
	if records[0].Sku != "X100" || records[2].Sku != "X100" {
		t.Fatalf("corrections not applied: %q %q", records[0].Sku, records[2].Sku)
	}
	if records[1].Sku != "A1" {
		t.Fatalf("valid sku altered: %q", records[1].Sku)
	}
}

func TestBuildRecords_ChannelHomologation(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, strings.Join([]string{
		"Codigo,Cliente,Fecha,Venta Costo,Canal",
		"A1,1,2026-01-01,10,ecom",
		"A2,2,2026-01-02,20,raro",
	}, "\n"))

	mapping := ColumnMapping{}
	for k, v := range baseMapping {
		mapping[k] = v
	}
	mapping[FieldChannel] = "Canal"

	sess := WizardSession{
		FilePath: path,
		Sheet:    SheetCSV,
		Mapping:  mapping,
		Channels: HomologationTable{"ecom": "Ecommerce"},
	}
	records, err := BuildRecords(sess, "maria")
	if err != nil {
		t.Fatalf("BuildRecords: %v", err)
	}
	if records[0].Channel == nil || *records[0].Channel != "Ecommerce" {
		t.Fatalf("homologated channel = %v", records[0].Channel)
	}
	// raw value without a table entry commits with a null channel
	if records[1].Channel != nil {
		t.Fatalf("unhomologated channel should be null, got %q", *records[1].Channel)
	}
}

func TestBuildRecords_LenientCoercions(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, strings.Join([]string{
		"Codigo,Cliente,Fecha,Venta Costo",
		"A1,no-es-numero,fecha-mala,basura",
	}, "\n"))

	sess := WizardSession{FilePath: path, Sheet: SheetCSV, Mapping: baseMapping}
	records, err := BuildRecords(sess, "maria")
	if err != nil {
		t.Fatalf("BuildRecords: %v", err)
	}
	rec := records[0]
	if rec.ClientCode != 0 {
		t.Fatalf("bad client code should coerce to 0, got %d", rec.ClientCode)
	}
	if rec.Date != nil {
		t.Fatalf("bad date should coerce to null, got %v", rec.Date)
	}
	if !rec.CostTotal.IsZero() {
		t.Fatalf("bad amount should coerce to 0, got %v", rec.CostTotal)
	}
}

func TestBuildRecords_RefusesMissingRequiredMapping(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "Codigo,Fecha\nA1,2026-01-01\n")
	sess := WizardSession{
		FilePath: path,
		Sheet:    SheetCSV,
		Mapping:  ColumnMapping{FieldSku: "Codigo", FieldDate: "Fecha"},
	}
	if _, err := BuildRecords(sess, "maria"); err == nil {
		t.Fatalf("expected error for missing required mappings")
	}
}

func TestBuildRecords_NotIdempotent(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "Codigo,Cliente,Fecha,Venta Costo\nA1,1,2026-01-01,10\n")
	sess := WizardSession{FilePath: path, Sheet: SheetCSV, Mapping: baseMapping}

	// building (and appending) twice doubles the data; dedup is left to an
	// external uniqueness constraint
	first, err := BuildRecords(sess, "maria")
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := BuildRecords(sess, "maria")
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("builds returned %d and %d rows", len(first), len(second))
	}
}
