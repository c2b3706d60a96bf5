package sellout

import "testing"

func TestParseMoney_SeparatorConventions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"$ 1.234,56", 1234.56},
		{"$1,234.56", 1234.56},
		{"1.234.567,89", 1234567.89},
		{"1,234,567.89", 1234567.89},
		{"1,234", 1234},
		{"1.234", 1234},
		{"1,23", 1.23},
		{"12,3456", 12.3456},
		{"0,5", 0.5},
		{"1500", 1500},
		{"-2.500,75", -2500.75},
	}
	for _, c := range cases {
		got := ParseMoney(c.in)
		if got.Coerced {
			t.Fatalf("ParseMoney(%q) unexpectedly coerced", c.in)
		}
		if got.Value != c.want {
			t.Fatalf("ParseMoney(%q) = %v, want %v", c.in, got.Value, c.want)
		}
	}
}

func TestParseMoney_NeverFails(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "n/a", "abc", "--", "$", "1.2.3,4,5"} {
		got := ParseMoney(in)
		if got.Value != 0 {
			t.Fatalf("ParseMoney(%q) = %v, want 0", in, got.Value)
		}
		if !got.Coerced {
			t.Fatalf("ParseMoney(%q) should report coercion", in)
		}
	}
}

func TestParseMoney_CleanZeroIsNotCoerced(t *testing.T) {
	t.Parallel()

	got := ParseMoney("0")
	if got.Value != 0 || got.Coerced {
		t.Fatalf("ParseMoney(\"0\") = %+v, want clean 0", got)
	}
}
