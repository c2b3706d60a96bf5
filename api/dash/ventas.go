package dash

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"SelloutCentral/api"
	"SelloutCentral/api/constants"
)

// groupColumns whitelists the group-by dimensions the dashboard offers.
var groupColumns = map[string]string{
	"canal_venta":           "canal_venta",
	"codigo_cliente":        "codigo_cliente::text",
	"vendedor_distribuidor": "vendedor_distribuidor",
	"mes_anio":              "TO_CHAR(fecha, 'YYYY-MM')",
}

type summaryRow struct {
	Label    *string  `json:"etiqueta"`
	Quantity *float64 `json:"total_cantidad"`
	Amount   *float64 `json:"total_monto"`
}

// GetSelloutSummary aggregates ventas over a date range, grouped by channel,
// client, salesperson or month, with an optional client filter.
func GetSelloutSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID    string `json:"user_id"`
			StartDate string `json:"fecha_inicio"`
			EndDate   string `json:"fecha_fin"`
			GroupBy   string `json:"agrupar_por"`
			Client    string `json:"filtro_cliente"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		now := time.Now()
		if req.StartDate == "" {
			req.StartDate = now.Format(constants.MonthFormat) + "-01"
		}
		if req.EndDate == "" {
			req.EndDate = now.Format(constants.DateFormat)
		}
		groupCol, ok := groupColumns[req.GroupBy]
		if !ok {
			groupCol = groupColumns["canal_venta"]
		}

		args := []interface{}{req.StartDate, req.EndDate}
		where := "fecha BETWEEN $1 AND $2"
		if req.Client != "" {
			code, err := strconv.Atoi(req.Client)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, "filtro_cliente must be a client code")
				return
			}
			args = append(args, code)
			where += " AND codigo_cliente = $3"
		}

		query := fmt.Sprintf(`
			SELECT %s AS etiqueta,
			       SUM(cantidad_vendida) AS total_cantidad,
			       SUM(total_venta_costo) AS total_monto
			FROM ventas
			WHERE %s
			GROUP BY etiqueta
			ORDER BY etiqueta ASC
		`, groupCol, where)

		rows, err := pool.Query(ctx, query, args...)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		summary := make([]summaryRow, 0)
		var totalQty, totalAmount float64
		for rows.Next() {
			var sr summaryRow
			if err := rows.Scan(&sr.Label, &sr.Quantity, &sr.Amount); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if sr.Quantity != nil {
				totalQty += *sr.Quantity
			}
			if sr.Amount != nil {
				totalAmount += *sr.Amount
			}
			summary = append(summary, sr)
		}
		if rows.Err() != nil {
			api.RespondWithError(w, http.StatusInternalServerError, rows.Err().Error())
			return
		}

		w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":          true,
			"resumen":          summary,
			"gran_total_cant":  totalQty,
			"gran_total_monto": totalAmount,
		})
	}
}

// GetRecentSales returns the ten most recently committed rows.
func GetRecentSales(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rows, err := pool.Query(ctx, `
			SELECT id, sku_sbd, codigo_cliente, fecha, total_venta_costo,
			       total_venta, cantidad_vendida, canal_venta,
			       vendedor_distribuidor, nit_cliente_venta, created_by
			FROM ventas ORDER BY id DESC LIMIT 10
		`)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rows.Close()

		type item struct {
			ID          int64      `json:"id"`
			Sku         string     `json:"sku_sbd"`
			ClientCode  int        `json:"codigo_cliente"`
			Date        *time.Time `json:"fecha"`
			CostTotal   *float64   `json:"total_venta_costo"`
			GrossTotal  *float64   `json:"total_venta"`
			Quantity    *float64   `json:"cantidad_vendida"`
			Channel     *string    `json:"canal_venta"`
			Salesperson *string    `json:"vendedor_distribuidor"`
			ClientTaxID *string    `json:"nit_cliente_venta"`
			CreatedBy   *string    `json:"created_by"`
		}
		results := make([]item, 0, 10)
		for rows.Next() {
			var it item
			if err := rows.Scan(&it.ID, &it.Sku, &it.ClientCode, &it.Date, &it.CostTotal,
				&it.GrossTotal, &it.Quantity, &it.Channel, &it.Salesperson,
				&it.ClientTaxID, &it.CreatedBy); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
			results = append(results, it)
		}
		api.RespondWithPayload(w, true, "", results)
	}
}

// DeleteSalesRecords removes committed rows in a date range, optionally for a
// single client. Mirrors the operational cleanup the reporting team runs
// after a distributor re-sends a period.
func DeleteSalesRecords(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req struct {
			UserID    string `json:"user_id"`
			StartDate string `json:"del_inicio"`
			EndDate   string `json:"del_fin"`
			Client    string `json:"del_cliente"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StartDate == "" || req.EndDate == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		args := []interface{}{req.StartDate, req.EndDate}
		sql := `DELETE FROM ventas WHERE fecha BETWEEN $1 AND $2`
		if req.Client != "" {
			code, err := strconv.Atoi(req.Client)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, "del_cliente must be a client code")
				return
			}
			args = append(args, code)
			sql += " AND codigo_cliente = $3"
		}
		tag, err := pool.Exec(ctx, sql, args...)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"deleted": tag.RowsAffected(),
		})
	}
}
