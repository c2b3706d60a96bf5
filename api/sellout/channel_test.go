package sellout

import (
	"reflect"
	"testing"
)

func TestHomologationTable_Apply(t *testing.T) {
	t.Parallel()

	tab := HomologationTable{"ECOM": "Ecommerce", "trad.": "Tradicional", "raro": ""}
	if c, ok := tab.Apply("ECOM"); !ok || c != "Ecommerce" {
		t.Fatalf("Apply(ECOM) = %q,%v", c, ok)
	}
	// no entry and empty entry both mean null channel, never a failure
	if _, ok := tab.Apply("desconocido"); ok {
		t.Fatalf("unmapped raw value should resolve to null channel")
	}
	if _, ok := tab.Apply("raro"); ok {
		t.Fatalf("empty assignment should resolve to null channel")
	}
}

func TestDistinct(t *testing.T) {
	t.Parallel()

	got := distinct([]string{"Moderno", " Moderno ", "", "Ecom", "Moderno", "  "})
	if !reflect.DeepEqual(got, []string{"Ecom", "Moderno"}) {
		t.Fatalf("distinct = %v", got)
	}
}
