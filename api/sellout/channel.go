package sellout

import (
	"sort"
	"strings"
)

// DefaultChannels is the canonical sales-channel vocabulary. Overridable from
// services.yaml; the homologation step maps every raw value a distributor
// invented onto exactly one of these.
var DefaultChannels = []string{
	"Tradicional",
	"Moderno",
	"Ecommerce",
	"Industrial",
	"Institucional",
}

// HomologationTable maps raw channel strings observed in a file to canonical
// channel names. Built in a single form submission, plain 1:1 substitution.
type HomologationTable map[string]string

// Apply resolves a raw value. A value without an entry commits with a null
// channel rather than failing the import.
func (t HomologationTable) Apply(raw string) (string, bool) {
	c, ok := t[raw]
	if !ok || c == "" {
		return "", false
	}
	return c, true
}

// DistinctChannels reads only the mapped channel column and returns the
// sorted distinct non-empty raw values for the homologation form.
func DistinctChannels(f ReportFile, col int) ([]string, error) {
	vals, err := f.Column(col)
	if err != nil {
		return nil, err
	}
	return distinct(vals), nil
}

func distinct(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
