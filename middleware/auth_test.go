package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret-key"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": 42,
		"role":    string(models.RoleAdmin),
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
}

func TestAuthenticateAcceptsCookie(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	var gotUserID int
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		if err != nil {
			t.Fatalf("claims missing from context: %v", err)
		}
		gotUserID = id
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signedToken(t, validClaims())})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 42 {
		t.Errorf("user id from claims = %d, want 42", gotUserID)
	}
}

func TestAuthenticateAcceptsBearerHeader(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, validClaims()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached with an expired token")
	}))

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, claims))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	auth := NewAuthenticator("different-secret")
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached with a forged token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, validClaims()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthorize(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	newHandler := func() http.Handler {
		return auth.Authenticate(Authorize(models.RoleAdmin)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		))
	}

	adminReq := httptest.NewRequest(http.MethodGet, "/players", nil)
	adminReq.Header.Set("Authorization", "Bearer "+signedToken(t, validClaims()))
	rec := httptest.NewRecorder()
	newHandler().ServeHTTP(rec, adminReq)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}

	playerClaims := validClaims()
	playerClaims["role"] = string(models.RolePlayer)
	playerReq := httptest.NewRequest(http.MethodGet, "/players", nil)
	playerReq.Header.Set("Authorization", "Bearer "+signedToken(t, playerClaims))
	rec = httptest.NewRecorder()
	newHandler().ServeHTTP(rec, playerReq)
	if rec.Code != http.StatusForbidden {
		t.Errorf("player status = %d, want 403", rec.Code)
	}
}
