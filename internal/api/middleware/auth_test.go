package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/identity"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testTokenIssuer() *identity.TokenIssuer {
	return identity.NewTokenIssuer(
		testSecret,
		"lavandaria-gaivota",
		[]string{"lavandaria-frontend"},
		time.Hour,
		30*time.Second,
	)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// okHandler возвращает 200 и subject из контекста.
func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			t.Error("claims отсутствуют в контексте за JWT middleware")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuth_ValidToken(t *testing.T) {
	issuer := testTokenIssuer()
	user := &model.User{
		ID:    "11111111-1111-1111-1111-111111111111",
		Email: "cliente@example.com",
		Roles: []string{model.RoleUser},
	}
	token, _, err := issuer.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() вернул ошибку: %v", err)
	}

	mw := NewJWTAuth(issuer, testLogger()).Middleware()

	var gotClaims *AuthClaims
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидается 200", rec.Code)
	}
	if gotClaims == nil {
		t.Fatal("claims не попали в контекст")
	}
	if gotClaims.Subject != user.ID {
		t.Errorf("Subject = %q, ожидается %q", gotClaims.Subject, user.ID)
	}
	if gotClaims.Email != user.Email {
		t.Errorf("Email = %q, ожидается %q", gotClaims.Email, user.Email)
	}
	if !gotClaims.HasRole(model.RoleUser) {
		t.Error("claims не содержат роль User")
	}
	if gotClaims.TokenID == "" {
		t.Error("TokenID пуст")
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	issuer := testTokenIssuer()
	mw := NewJWTAuth(issuer, testLogger()).Middleware()
	handler := mw(okHandler(t))

	// Токен, подписанный другим ключом
	foreign := identity.NewTokenIssuer(
		"ffffffffffffffffffffffffffffffff",
		"lavandaria-gaivota",
		[]string{"lavandaria-frontend"},
		time.Hour,
		0,
	)
	foreignToken, _, err := foreign.IssueToken(&model.User{ID: "x", Roles: []string{model.RoleUser}})
	if err != nil {
		t.Fatalf("IssueToken() вернул ошибку: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"без заголовка", ""},
		{"не Bearer", "Basic dXNlcjpwYXNz"},
		{"пустой токен", "Bearer "},
		{"мусор вместо токена", "Bearer not-a-jwt"},
		{"чужая подпись", "Bearer " + foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("статус = %d, ожидается 401", rec.Code)
			}

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("ошибка разбора тела ответа: %v", err)
			}
			if body.Error.Code != "UNAUTHORIZED" {
				t.Errorf("код ошибки = %q, ожидается UNAUTHORIZED", body.Error.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	issuer := testTokenIssuer()
	authMw := NewJWTAuth(issuer, testLogger()).Middleware()
	adminOnly := RequireRole(model.RoleAdmin)

	handler := authMw(adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	adminToken, _, err := issuer.IssueToken(&model.User{
		ID:    "admin-id",
		Roles: []string{model.RoleAdmin, model.RoleUser},
	})
	if err != nil {
		t.Fatalf("IssueToken() вернул ошибку: %v", err)
	}
	userToken, _, err := issuer.IssueToken(&model.User{
		ID:    "user-id",
		Roles: []string{model.RoleUser},
	})
	if err != nil {
		t.Fatalf("IssueToken() вернул ошибку: %v", err)
	}

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"админ проходит", adminToken, http.StatusOK},
		{"обычный пользователь — 403", userToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders/all", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("статус = %d, ожидается %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRole_NoClaims(t *testing.T) {
	handler := RequireRole(model.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/all", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус = %d, ожидается 401", rec.Code)
	}
}
