package sellout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SalesRecord is one reconciled row bound for the ventas table. Optional
// fields are nil when the source column was never mapped; monetary fields are
// decimals so Postgres numeric columns round-trip exactly.
type SalesRecord struct {
	Sku         string
	ClientCode  int
	Date        *time.Time
	CostTotal   decimal.Decimal
	GrossTotal  *decimal.Decimal
	Quantity    *decimal.Decimal
	Channel     *string
	Salesperson *string
	ClientTaxID *string
	CreatedBy   string
}

// saleDateLayouts covers the date shapes distributors actually send.
var saleDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	"2 Jan 2006",
	"2006-01-02 15:04:05",
	"01-02-06",
}

// parseSaleDate coerces unparseable dates to nil instead of failing the row.
func parseSaleDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// parseClientCode coerces unparseable client codes to 0.
func parseClientCode(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

// BuildRecords re-reads the entire source dataset and applies every decision
// the wizard collected, in order: column plan, channel homologation, SKU
// corrections, numeric normalization, date and client-code coercion, user
// stamp. It fails before anything is written when a required field is
// unmapped; per-cell garbage never fails a row.
func BuildRecords(sess WizardSession, userName string) ([]SalesRecord, error) {
	if missing := sess.Mapping.MissingRequired(); len(missing) > 0 {
		return nil, fmt.Errorf("required fields not mapped: %s", strings.Join(missing, ", "))
	}

	file := ReportFile{Path: sess.FilePath, Sheet: sess.Sheet}
	headers, rows, err := file.Rows()
	if err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}
	plan, err := sess.Mapping.Plan(headers)
	if err != nil {
		return nil, err
	}

	records := make([]SalesRecord, 0, len(rows))
	for _, row := range rows {
		rec := SalesRecord{
			Sku:        sess.Corrections.Apply(strings.TrimSpace(plan.cell(row, FieldSku))),
			ClientCode: parseClientCode(plan.cell(row, FieldClientCode)),
			Date:       parseSaleDate(plan.cell(row, FieldDate)),
			CostTotal:  decimal.NewFromFloat(ParseMoney(plan.cell(row, FieldCostTotal)).Value),
			CreatedBy:  userName,
		}
		if _, ok := plan[FieldGrossTotal]; ok {
			d := decimal.NewFromFloat(ParseMoney(plan.cell(row, FieldGrossTotal)).Value)
			rec.GrossTotal = &d
		}
		if _, ok := plan[FieldQuantity]; ok {
			d := decimal.NewFromFloat(ParseMoney(plan.cell(row, FieldQuantity)).Value)
			rec.Quantity = &d
		}
		if _, ok := plan[FieldChannel]; ok {
			if canon, ok := sess.Channels.Apply(strings.TrimSpace(plan.cell(row, FieldChannel))); ok {
				rec.Channel = &canon
			}
		}
		if _, ok := plan[FieldSalesperson]; ok {
			if v := strings.TrimSpace(plan.cell(row, FieldSalesperson)); v != "" {
				rec.Salesperson = &v
			}
		}
		if _, ok := plan[FieldClientTaxID]; ok {
			if v := strings.TrimSpace(plan.cell(row, FieldClientTaxID)); v != "" {
				rec.ClientTaxID = &v
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// ventasColumns matches the fixed ventas column set.
var ventasColumns = []string{
	"sku_sbd",
	"codigo_cliente",
	"fecha",
	"total_venta_costo",
	"total_venta",
	"cantidad_vendida",
	"canal_venta",
	"vendedor_distribuidor",
	"nit_cliente_venta",
	"created_by",
}

// AppendSales bulk-appends the transformed rows. Appending twice appends the
// data twice: dedup is a uniqueness constraint's job, not ours. The copy
// itself is the only write; rows already copied when it fails may be durable.
func AppendSales(ctx context.Context, pool *pgxpool.Pool, records []SalesRecord) (int64, error) {
	copyRows := make([][]interface{}, len(records))
	for i, r := range records {
		copyRows[i] = []interface{}{
			r.Sku,
			r.ClientCode,
			r.Date,
			r.CostTotal,
			r.GrossTotal,
			r.Quantity,
			r.Channel,
			r.Salesperson,
			r.ClientTaxID,
			r.CreatedBy,
		}
	}
	return pool.CopyFrom(ctx, pgx.Identifier{"ventas"}, ventasColumns, pgx.CopyFromRows(copyRows))
}
