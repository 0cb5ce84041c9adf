package identity

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// minPasswordLength — минимальная длина пароля при регистрации и смене.
const minPasswordLength = 6

// HashPassword возвращает bcrypt-хеш пароля со стандартной стоимостью.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	return string(hash), nil
}

// CheckPassword сравнивает пароль с bcrypt-хешем.
// Возвращает true при совпадении.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidPassword проверяет минимальные требования к паролю.
func ValidPassword(password string) bool {
	return len(password) >= minPasswordLength
}
