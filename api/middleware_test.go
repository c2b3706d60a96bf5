package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"SelloutCentral/api/auth"
	"SelloutCentral/api/constants"
)

func blockedNext(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not run")
	})
}

func TestSessionMiddleware_RejectsMethod(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/dash/sellout/recent", nil)
	rec := httptest.NewRecorder()
	SessionMiddleware(blockedNext(t)).ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestSessionMiddleware_MissingUserID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/dash/sellout/recent", strings.NewReader(`{}`))
	req.Header.Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	rec := httptest.NewRecorder()
	SessionMiddleware(blockedNext(t)).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSessionMiddleware_UnknownSession(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/dash/sellout/recent", strings.NewReader(`{"user_id":"ghost"}`))
	req.Header.Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	rec := httptest.NewRecorder()
	SessionMiddleware(blockedNext(t)).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSessionMiddleware_DeclaredOversizeRejected(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/sellout/upload", strings.NewReader("x"))
	req.Header.Set(constants.ContentTypeHeader, constants.ContentTypeMultipart)
	req.ContentLength = constants.MaxUploadBytes + 1
	rec := httptest.NewRecorder()
	SessionMiddleware(blockedNext(t)).ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestContextGetters(t *testing.T) {
	t.Parallel()

	sess := &auth.UserSession{UserID: "u1", Name: "Maria"}
	ctx := context.WithValue(context.Background(), UserIDKey, "u1")
	ctx = context.WithValue(ctx, SessionKey, sess)

	if got := GetUserIDFromCtx(ctx); got != "u1" {
		t.Fatalf("GetUserIDFromCtx = %q", got)
	}
	if got := GetSessionFromCtx(ctx); got != sess {
		t.Fatalf("GetSessionFromCtx = %v", got)
	}
	if got := GetUserIDFromCtx(context.Background()); got != "" {
		t.Fatalf("empty context should yield no user id, got %q", got)
	}
	if got := GetSessionFromCtx(context.Background()); got != nil {
		t.Fatalf("empty context should yield no session, got %v", got)
	}
}
