// Пакет identity — выпуск и проверка сессионных токенов (JWT HS256).
// Сервис сам выступает identity provider: пароли хранятся локально (bcrypt),
// токены подписываются симметричным ключом из конфигурации.
package identity

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
)

// Ошибки проверки токенов.
var (
	// ErrInvalidToken — токен не прошёл проверку подписи или срока действия.
	ErrInvalidToken = errors.New("невалидный или просроченный токен")
)

// Claims — полезная нагрузка сессионного токена.
// sub — UUID пользователя, jti — уникальный идентификатор токена,
// roles — список ролей, aud — список audience.
type Claims struct {
	// Email — адрес электронной почты пользователя.
	Email string `json:"email"`
	// Roles — роли пользователя (Admin, User).
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole проверяет наличие роли в claims.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenIssuer выпускает и проверяет JWT HS256.
type TokenIssuer struct {
	secret    []byte
	issuer    string
	audiences []string
	validity  time.Duration
	leeway    time.Duration
}

// NewTokenIssuer создаёт issuer токенов.
// secret — ключ подписи HS256 (минимум 32 байта, валидируется config).
// validity — срок действия access-токена (по умолчанию 60 минут из конфигурации).
func NewTokenIssuer(secret, issuer string, audiences []string, validity, leeway time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:    []byte(secret),
		issuer:    issuer,
		audiences: audiences,
		validity:  validity,
		leeway:    leeway,
	}
}

// IssueToken выпускает подписанный токен для пользователя.
// Возвращает строку токена и время истечения.
func (t *TokenIssuer) IssueToken(u *model.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(t.validity)

	claims := &Claims{
		Email: u.Email,
		Roles: u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings(t.audiences),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken проверяет подпись, срок действия, issuer и audience токена.
// Возвращает извлечённые claims или ErrInvalidToken.
func (t *TokenIssuer) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(t.leeway),
		jwt.WithIssuer(t.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err) //nolint:errorlint // намеренный двойной wrap
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if !t.audienceAllowed(claims.Audience) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// audienceAllowed проверяет, что среди audience токена есть хотя бы одна
// из настроенных. jwt.WithAudience сверяет только одно значение, поэтому
// список проверяется вручную.
func (t *TokenIssuer) audienceAllowed(tokenAud jwt.ClaimStrings) bool {
	if len(t.audiences) == 0 {
		return true
	}
	for _, aud := range t.audiences {
		if slices.Contains(tokenAud, aud) {
			return true
		}
	}
	return false
}

// Validity возвращает настроенный срок действия токена.
func (t *TokenIssuer) Validity() time.Duration {
	return t.validity
}
