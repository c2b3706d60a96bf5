package sellout

import (
	"fmt"
	"sort"
)

// Internal field names for the ventas schema. Uploaded reports are renamed
// onto these regardless of what the distributor called the columns.
const (
	FieldSku         = "sku_sbd"
	FieldCostTotal   = "total_venta_costo"
	FieldDate        = "fecha"
	FieldClientCode  = "codigo_cliente"
	FieldQuantity    = "cantidad_vendida"
	FieldGrossTotal  = "total_venta"
	FieldChannel     = "canal_venta"
	FieldSalesperson = "vendedor_distribuidor"
	FieldClientTaxID = "nit_cliente_venta"
)

// SchemaField describes one internal field as presented on the mapping step.
type SchemaField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Desc     string `json:"desc"`
	Required bool   `json:"required"`
}

// Schema lists the nine recognized fields in display order.
var Schema = []SchemaField{
	{FieldQuantity, "Cantidad Vendida", "Ventas reportadas en unidades por el distribuidor.", false},
	{FieldSku, "SKU SBD", "SKU o código interno de producto (nuestro código).", true},
	{FieldCostTotal, "Total Venta Costo", "Venta reportada por el distribuidor a COSTO.", true},
	{FieldDate, "Fecha", "Fecha de la venta reportada por el distribuidor.", true},
	{FieldClientCode, "Código Cliente", "Código SAP interno del cliente.", true},
	{FieldSalesperson, "Vendedor Distribuidor", "Nombre del vendedor del distribuidor asociado a la venta.", false},
	{FieldGrossTotal, "Total Venta", "Venta sin descontar costo reportada por el distribuidor.", false},
	{FieldChannel, "Canal de Venta", "Canal de venta (Comercio, Ecommerce, Tradicional, etc.).", false},
	{FieldClientTaxID, "NIT Cliente Venta", "Código o NIT del cliente del distribuidor.", false},
}

// ColumnMapping maps internal field name -> source header chosen by the user.
// Absent or empty entries mean the field was left unmapped.
type ColumnMapping map[string]string

// MissingRequired returns the required fields that have no assigned header,
// sorted for deterministic display. Commit must refuse while non-empty.
func (m ColumnMapping) MissingRequired() []string {
	var missing []string
	for _, f := range Schema {
		if f.Required && m[f.Name] == "" {
			missing = append(missing, f.Name)
		}
	}
	sort.Strings(missing)
	return missing
}

// HasChannel reports whether the channel field was mapped; when it was not,
// the homologation step is skipped entirely.
func (m ColumnMapping) HasChannel() bool {
	return m[FieldChannel] != ""
}

// ColumnPlan resolves each mapped field to its column index in the uploaded
// header row. Unmapped optional fields are simply absent; source columns not
// claimed by any field are discarded.
type ColumnPlan map[string]int

// Plan builds a ColumnPlan against the file's header row. A mapping that
// names a header the file does not contain is an error: the user mapped
// against a different sheet or a re-saved file.
func (m ColumnMapping) Plan(headers []string) (ColumnPlan, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	plan := make(ColumnPlan)
	for _, f := range Schema {
		src := m[f.Name]
		if src == "" {
			continue
		}
		col, ok := index[src]
		if !ok {
			return nil, fmt.Errorf("mapped column %q for %s not found in file", src, f.Name)
		}
		plan[f.Name] = col
	}
	return plan, nil
}

// cell returns the planned column's value for a row, or "" when the field is
// unmapped or the row is short.
func (p ColumnPlan) cell(row []string, field string) string {
	col, ok := p[field]
	if !ok || col >= len(row) {
		return ""
	}
	return row[col]
}
