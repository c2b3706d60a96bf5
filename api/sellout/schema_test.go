package sellout

import (
	"reflect"
	"testing"
)

func TestColumnMapping_MissingRequired(t *testing.T) {
	t.Parallel()

	m := ColumnMapping{
		FieldSku:  "Codigo",
		FieldDate: "Fecha Venta",
	}
	missing := m.MissingRequired()
	want := []string{FieldClientCode, FieldCostTotal}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("MissingRequired = %v, want %v", missing, want)
	}
}

func TestColumnMapping_AllRequiredPresent(t *testing.T) {
	t.Parallel()

	m := ColumnMapping{
		FieldSku:        "Codigo",
		FieldCostTotal:  "Venta Costo",
		FieldDate:       "Fecha",
		FieldClientCode: "Cliente",
	}
	if missing := m.MissingRequired(); len(missing) > 0 {
		t.Fatalf("MissingRequired = %v, want none", missing)
	}
}

func TestColumnMapping_Plan(t *testing.T) {
	t.Parallel()

	headers := []string{"Cliente", "Codigo", "Fecha", "Venta Costo", "Canal", "Ignorada"}
	m := ColumnMapping{
		FieldSku:        "Codigo",
		FieldCostTotal:  "Venta Costo",
		FieldDate:       "Fecha",
		FieldClientCode: "Cliente",
		FieldChannel:    "Canal",
	}
	plan, err := m.Plan(headers)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan[FieldSku] != 1 || plan[FieldClientCode] != 0 || plan[FieldChannel] != 4 {
		t.Fatalf("unexpected plan: %v", plan)
	}
	if _, ok := plan[FieldQuantity]; ok {
		t.Fatalf("unmapped field should be absent from plan")
	}
}

func TestColumnMapping_PlanUnknownHeader(t *testing.T) {
	t.Parallel()

	m := ColumnMapping{
		FieldSku:        "No Existe",
		FieldCostTotal:  "Venta Costo",
		FieldDate:       "Fecha",
		FieldClientCode: "Cliente",
	}
	if _, err := m.Plan([]string{"Cliente", "Fecha", "Venta Costo"}); err == nil {
		t.Fatalf("expected error for header missing from file")
	}
}

func TestColumnMapping_HasChannel(t *testing.T) {
	t.Parallel()

	if (ColumnMapping{}).HasChannel() {
		t.Fatalf("empty mapping should not report a channel")
	}
	if !(ColumnMapping{FieldChannel: "Canal"}).HasChannel() {
		t.Fatalf("mapped channel should be reported")
	}
}
