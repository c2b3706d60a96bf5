package sellout

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CorrectionTable maps an uploaded SKU not found in the reference catalog to
// the corrected SKU supplied by the user. Valid SKUs pass through unchanged.
type CorrectionTable map[string]string

// Apply substitutes a correction, falling back to identity when none was
// supplied (uncorrected invalid SKUs soft-pass into the store).
func (t CorrectionTable) Apply(sku string) string {
	if c, ok := t[sku]; ok && c != "" {
		return c
	}
	return sku
}

// FindInvalidSKUs returns the file's SKUs that the reference catalog does not
// know, sorted for deterministic display.
func FindInvalidSKUs(fileSKUs []string, catalog map[string]struct{}) []string {
	invalid := make([]string, 0)
	for _, sku := range fileSKUs {
		if _, ok := catalog[sku]; !ok {
			invalid = append(invalid, sku)
		}
	}
	sort.Strings(invalid)
	return invalid
}

// LoadCatalog reads the distinct valid SKUs from the productos reference
// table. The catalog is externally owned and never written here.
func LoadCatalog(ctx context.Context, pool *pgxpool.Pool) (map[string]struct{}, error) {
	rows, err := pool.Query(ctx, `SELECT DISTINCT sku_sbd FROM productos WHERE sku_sbd IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	catalog := make(map[string]struct{})
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err == nil {
			catalog[sku] = struct{}{}
		}
	}
	return catalog, rows.Err()
}

// DistinctSKUs reads only the mapped SKU column and returns the sorted
// distinct values found in the file.
func DistinctSKUs(f ReportFile, col int) ([]string, error) {
	vals, err := f.Column(col)
	if err != nil {
		return nil, err
	}
	return distinct(vals), nil
}
