package sellout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"SelloutCentral/api"
	"SelloutCentral/api/constants"
)

// requestUser pulls the authenticated user off the request context, where the
// session middleware put it.
func requestUser(w http.ResponseWriter, r *http.Request) (userID, name string, ok bool) {
	userID = api.GetUserIDFromCtx(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
		return "", "", false
	}
	if s := api.GetSessionFromCtx(r.Context()); s != nil {
		name = s.Name
	}
	return userID, name, true
}

func respondJSON(w http.ResponseWriter, payload map[string]interface{}) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{constants.ValueSuccess: false, constants.ValueError: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return false
	}
	return true
}

// UploadSalesReport receives the distributor file, stores it, and opens a
// wizard session. Multi-sheet workbooks pause here until a sheet is chosen.
// The session middleware normally caps and parses the body already; the
// handler enforces the same cap when called without it.
func UploadSalesReport(store *FileStore, wiz *Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestUser(w, r)
		if !ok {
			return
		}
		if r.MultipartForm == nil {
			if r.ContentLength > constants.MaxUploadBytes {
				respondError(w, http.StatusRequestEntityTooLarge, constants.ErrUploadTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadBytes)
			if err := r.ParseMultipartForm(constants.MultipartMemoryBytes); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					respondError(w, http.StatusRequestEntityTooLarge, constants.ErrUploadTooLarge)
					return
				}
				respondError(w, http.StatusBadRequest, "failed to parse multipart form")
				return
			}
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "no file uploaded")
			return
		}
		defer file.Close()

		path, err := store.Save(header.Filename, file)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to store upload: "+err.Error())
			return
		}
		sheets, err := SheetNames(path)
		if err != nil {
			store.Remove(path)
			respondError(w, http.StatusBadRequest, "unreadable file: "+err.Error())
			return
		}

		sheet := ""
		if len(sheets) == 1 {
			sheet = sheets[0]
		}
		wiz.Begin(userID, path, sheet)
		respondJSON(w, map[string]interface{}{
			"success":     true,
			"sheets":      sheets,
			"sheet":       sheet,
			"needs_sheet": sheet == "",
		})
	}
}

// SelectSheet pins the sheet for a multi-sheet workbook.
func SelectSheet(wiz *Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestUser(w, r)
		if !ok {
			return
		}
		var req struct {
			Sheet string `json:"sheet"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Sheet == "" {
			respondError(w, http.StatusBadRequest, "sheet required")
			return
		}
		if err := wiz.SetSheet(userID, req.Sheet); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondJSON(w, map[string]interface{}{"success": true, "sheet": req.Sheet})
	}
}

// GetImportSchema serves the file's headers alongside the internal schema so
// the client can render the mapping form.
func GetImportSchema(wiz *Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestUser(w, r)
		if !ok {
			return
		}
		sess, err := wiz.Snapshot(userID)
		if err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		headers, err := ReportFile{Path: sess.FilePath, Sheet: sess.Sheet}.Headers()
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read headers: "+err.Error())
			return
		}
		if err := wiz.MarkHeadersExtracted(userID); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondJSON(w, map[string]interface{}{
			"success": true,
			"headers": headers,
			"schema":  Schema,
		})
	}
}

// SubmitMapping stores the column mapping. Required fields must all be
// assigned; the response names the next wizard step.
func SubmitMapping(wiz *Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestUser(w, r)
		if !ok {
			return
		}
		var req struct {
			Mapping map[string]string `json:"mapping"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		mapping := ColumnMapping(req.Mapping)
		if missing := mapping.MissingRequired(); len(missing) > 0 {
			respondError(w, http.StatusBadRequest, "required fields not mapped: "+strings.Join(missing, ", "))
			return
		}
		sess, err := wiz.Snapshot(userID)
		if err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		headers, err := ReportFile{Path: sess.FilePath, Sheet: sess.Sheet}.Headers()
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read headers: "+err.Error())
			return
		}
		if _, err := mapping.Plan(headers); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := wiz.SetMapping(userID, mapping); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		next := "skus"
		if mapping.HasChannel() {
			next = "channels"
		}
		respondJSON(w, map[string]interface{}{"success": true, "next_step": next})
	}
}

// GetDistinctChannels lists the raw channel values found in the file plus the
// canonical vocabulary to homologate onto.
func GetDistinctChannels(wiz *Wizard, canonical []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestUser(w, r)
		if !ok {
			return
		}
		sess, err := wiz.Snapshot(userID)
		if err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		if !sess.Mapping.HasChannel() {
			respondError(w, http.StatusConflict, "channel column was not mapped")
			return
		}
		file := ReportFile{Path: sess.FilePath, Sheet: sess.Sheet}
		headers, err := file.Headers()
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read headers: "+err.Error())
			return
		}
		plan, err := sess.Mapping.Plan(headers)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		raw, err := DistinctChannels(file, plan[FieldChannel])
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read channel column: "+err.Error())
			return
		}
		if err := wiz.MarkChannelsExtracted(userID); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondJSON(w, map[string]interface{}{
			"success":   true,
			"channels":  raw,
			"canonical": canonical,
		})
	}
}

// SubmitHomologation stores the raw-to-canonical channel table. Raw values
// left unassigned commit with a null channel.
func SubmitHomologation(wiz *Wizard, canonical []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestUser(w, r)
		if !ok {
			return
		}
		var req struct {
			Channels map[string]string `json:"channels"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		valid := make(map[string]struct{}, len(canonical))
		for _, c := range canonical {
			valid[c] = struct{}{}
		}
		for raw, canon := range req.Channels {
			if canon == "" {
				continue
			}
			if _, ok := valid[canon]; !ok {
				respondError(w, http.StatusBadRequest, "unknown canonical channel for "+raw+": "+canon)
				return
			}
		}
		if err := wiz.SetHomologation(userID, HomologationTable(req.Channels)); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondJSON(w, map[string]interface{}{"success": true, "next_step": "skus"})
	}
}

// GetInvalidSKUs diffs the file's SKUs against the reference catalog. An
// empty result means the wizard is ready to commit.
func GetInvalidSKUs(pool *pgxpool.Pool, wiz *Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestUser(w, r)
		if !ok {
			return
		}
		sess, err := wiz.Snapshot(userID)
		if err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		file := ReportFile{Path: sess.FilePath, Sheet: sess.Sheet}
		headers, err := file.Headers()
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read headers: "+err.Error())
			return
		}
		plan, err := sess.Mapping.Plan(headers)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		fileSKUs, err := DistinctSKUs(file, plan[FieldSku])
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read sku column: "+err.Error())
			return
		}
		catalog, err := LoadCatalog(r.Context(), pool)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load reference catalog: "+err.Error())
			return
		}
		invalid := FindInvalidSKUs(fileSKUs, catalog)
		if err := wiz.SetInvalidSKUs(userID, invalid); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondJSON(w, map[string]interface{}{
			"success":      true,
			"invalid_skus": invalid,
			"ready":        len(invalid) == 0,
		})
	}
}

// SubmitCorrections stores SKU corrections for the invalid set. Leaving an
// invalid SKU uncorrected is allowed; it passes through unchanged at commit.
func SubmitCorrections(wiz *Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestUser(w, r)
		if !ok {
			return
		}
		var req struct {
			Corrections map[string]string `json:"corrections"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if err := wiz.SetCorrections(userID, CorrectionTable(req.Corrections)); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondJSON(w, map[string]interface{}{"success": true, "next_step": "commit"})
	}
}

// CommitImport applies every accumulated decision to the full dataset and
// appends it to ventas. The response is the structured commit result rather
// than the step-level success shape.
func CommitImport(pool *pgxpool.Pool, wiz *Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, name, ok := requestUser(w, r)
		if !ok {
			return
		}
		sess, err := wiz.Snapshot(userID)
		if err != nil {
			commitError(w, err.Error())
			return
		}
		if err := commitGuard(&sess); err != nil {
			commitError(w, err.Error())
			return
		}
		records, err := BuildRecords(sess, name)
		if err != nil {
			commitError(w, err.Error())
			return
		}
		count, err := AppendSales(r.Context(), pool, records)
		if err != nil {
			commitError(w, "append failed: "+err.Error())
			return
		}
		if err := wiz.Complete(userID); err != nil {
			// Rows are durable; only teardown failed. Report success anyway.
			api.LogError("post-commit teardown failed for user %s: %v", userID, err)
		}
		respondJSON(w, map[string]interface{}{"status": "success", "count": count})
	}
}

func commitError(w http.ResponseWriter, msg string) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "error", "message": msg})
}

// CancelImport abandons the in-flight import and releases its temp file.
func CancelImport(wiz *Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requestUser(w, r)
		if !ok {
			return
		}
		if err := wiz.Cancel(userID); err != nil {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondJSON(w, map[string]interface{}{"success": true})
	}
}
