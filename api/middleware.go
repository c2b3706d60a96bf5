package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"SelloutCentral/api/auth"
	"SelloutCentral/api/constants"
)

type contextKey string

const (
	SessionKey contextKey = "session"
	UserIDKey  contextKey = "user_id"
)

func GetSessionFromCtx(ctx context.Context) *auth.UserSession {
	if session, ok := ctx.Value(SessionKey).(*auth.UserSession); ok {
		return session
	}
	return nil
}

func GetUserIDFromCtx(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// SessionMiddleware extracts user_id from the request body (JSON or
// multipart), validates it against the active sessions, and attaches the
// session to the request context. Bodies are capped at MaxUploadBytes before
// anything reads them; an oversized upload is rejected with 413.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		if r.ContentLength > constants.MaxUploadBytes {
			RespondWithError(w, http.StatusRequestEntityTooLarge, constants.ErrUploadTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadBytes)

		var userID string
		ct := r.Header.Get(constants.ContentTypeHeader)
		if strings.HasPrefix(ct, constants.ContentTypeJSON) {
			var bodyMap map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&bodyMap)
			if uid, ok := bodyMap[constants.KeyUserID].(string); ok {
				userID = uid
			}
			// Re-marshal and reset body for downstream handlers
			bodyBytes, _ := json.Marshal(bodyMap)
			r.Body = io.NopCloser(strings.NewReader(string(bodyBytes)))
		} else if strings.HasPrefix(ct, constants.ContentTypeMultipart) {
			if err := r.ParseMultipartForm(constants.MultipartMemoryBytes); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					RespondWithError(w, http.StatusRequestEntityTooLarge, constants.ErrUploadTooLarge)
					return
				}
				RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
				return
			}
			userID = r.FormValue(constants.KeyUserID)
		}

		if userID == "" {
			log.Println("[ERROR] Missing user_id in request")
			RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
			return
		}

		var session *auth.UserSession
		for _, s := range auth.GetActiveSessions() {
			if s.UserID == userID {
				session = s
				break
			}
		}
		if session == nil {
			log.Println("[ERROR] Invalid session for user_id:", userID)
			RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, SessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
