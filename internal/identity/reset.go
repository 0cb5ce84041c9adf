package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// resetTokenBytes — длина случайной части токена сброса пароля.
const resetTokenBytes = 32

// NewResetToken генерирует одноразовый токен сброса пароля.
// Возвращает сам токен (уходит пользователю в ссылке) и его SHA-256 хеш
// (хранится в БД; сырой токен в базу не попадает).
func NewResetToken() (token string, tokenHash string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("ошибка генерации токена сброса: %w", err)
	}
	token = hex.EncodeToString(buf)
	return token, HashResetToken(token), nil
}

// HashResetToken возвращает SHA-256 хеш токена сброса в hex.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
