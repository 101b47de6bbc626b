package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/willowmere/hearth/internal/auth"
)

func testIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	return auth.NewTokenIssuer("test-secret", 0)
}

func TestRequireAuthNoHeader(t *testing.T) {
	handler := RequireAuth(testIssuer(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	handler := RequireAuth(testIssuer(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	issuer := testIssuer(t)
	token, err := issuer.Issue("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	var gotUserID string
	handler := RequireAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotUserID != "user-1" {
		t.Errorf("user id = %q, want user-1", gotUserID)
	}
}

func TestRequireAuthQueryToken(t *testing.T) {
	issuer := testIssuer(t)
	token, err := issuer.Issue("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	reached := false
	handler := RequireAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest("GET", "/ws?house=ABC123&access_token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !reached {
		t.Errorf("handler not reached, status = %d", rec.Code)
	}
}

func TestRequireAuthWrongScheme(t *testing.T) {
	issuer := testIssuer(t)
	token, err := issuer.Issue("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	handler := RequireAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
