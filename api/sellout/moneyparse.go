package sellout

import (
	"strconv"
	"strings"
)

// Outcome is the result of parsing one monetary/quantity cell. Coerced is true
// when the lenient fallback produced the value instead of a clean parse, so
// callers can tell "parsed 0" apart from "defaulted to 0" without changing the
// import behaviour.
type Outcome struct {
	Value   float64
	Coerced bool
}

// ParseMoney normalizes a raw cell into a float. Distributor files mix Latin
// ("1.234,56") and Anglo ("1,234.56") separator conventions with no declared
// locale, so the rightmost separator wins as the decimal mark when both
// appear. A single separator followed by exactly three digits is read as a
// thousands mark. Unparseable input yields 0 rather than failing the import.
func ParseMoney(raw string) Outcome {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Outcome{Value: 0, Coerced: true}
	}
	s = strings.NewReplacer("$", "", " ", "", " ", "").Replace(s)

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if isThousandsMark(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	case hasDot:
		if isThousandsMark(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Outcome{Value: 0, Coerced: true}
	}
	return Outcome{Value: v}
}

// isThousandsMark reports whether sep occurs exactly once with exactly three
// digits after it ("1,234" style). Heuristic: a value meant as a decimal
// fraction with three digits is misread, which is accepted over blocking the
// upload on a single cell.
func isThousandsMark(s, sep string) bool {
	if strings.Count(s, sep) != 1 {
		return false
	}
	tail := s[strings.Index(s, sep)+1:]
	if len(tail) != 3 {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
