// auth.go — JWT middleware для аутентификации и авторизации.
// Токены выпускаются самим сервисом (HS256), поэтому проверка подписи
// локальная — внешний JWKS не нужен. Извлечённые claims помещаются
// в контекст запроса для downstream handlers.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/errors"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/identity"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyClaims — извлечённые claims в контексте запроса.
	ContextKeyClaims contextKey = "jwt_claims"
)

// AuthClaims — извлечённые claims аутентифицированного субъекта.
// Реализует ownership.Identity.
type AuthClaims struct {
	// Subject — sub из JWT (UUID пользователя).
	Subject string
	// Email — email из JWT.
	Email string
	// Roles — роли из JWT (Admin, User).
	Roles []string
	// TokenID — jti из JWT.
	TokenID string
}

// SubjectID возвращает идентификатор субъекта.
func (c *AuthClaims) SubjectID() string {
	return c.Subject
}

// HasRole проверяет наличие роли у субъекта.
func (c *AuthClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole проверяет наличие хотя бы одной из указанных ролей.
func (c *AuthClaims) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// JWTAuth — middleware для JWT-аутентификации.
type JWTAuth struct {
	issuer *identity.TokenIssuer
	logger *slog.Logger
}

// NewJWTAuth создаёт JWT middleware поверх локального issuer токенов.
func NewJWTAuth(issuer *identity.TokenIssuer, logger *slog.Logger) *JWTAuth {
	return &JWTAuth{
		issuer: issuer,
		logger: logger.With(slog.String("component", "jwt_auth")),
	}
}

// Middleware возвращает HTTP middleware для JWT-аутентификации.
// Извлекает Bearer token, валидирует подпись (HS256), issuer, audience
// и срок действия, помещает AuthClaims в контекст.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Отсутствует заголовок Authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(w, "Неверный формат Authorization: ожидается Bearer <token>")
				return
			}

			tokenString := parts[1]
			if tokenString == "" {
				apierrors.Unauthorized(w, "Пустой Bearer token")
				return
			}

			claims, err := j.issuer.VerifyToken(tokenString)
			if err != nil {
				j.logger.Debug("JWT валидация не пройдена",
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Unauthorized(w, "Невалидный или просроченный токен")
				return
			}

			authClaims := &AuthClaims{
				Subject: claims.Subject,
				Email:   claims.Email,
				Roles:   claims.Roles,
				TokenID: claims.ID,
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, authClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole возвращает middleware, требующий одну из указанных ролей.
// Должен использоваться ПОСЛЕ JWTAuth.Middleware().
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
				return
			}

			if !claims.HasAnyRole(roles...) {
				apierrors.Forbidden(w, fmt.Sprintf("Недостаточно прав: требуется роль %s", strings.Join(roles, " или ")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// --- Context helpers ---

// ClaimsFromContext извлекает AuthClaims из контекста запроса.
// Возвращает nil, если claims не найдены.
func ClaimsFromContext(ctx context.Context) *AuthClaims {
	claims, _ := ctx.Value(ContextKeyClaims).(*AuthClaims)
	return claims
}

// SubjectFromContext извлекает sub из контекста запроса.
// Возвращает пустую строку, если claims не найдены.
func SubjectFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Subject
}
