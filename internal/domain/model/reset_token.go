package model

import "time"

// ResetToken — одноразовый токен восстановления пароля.
// Хранится в таблице password_reset_tokens. В БД попадает только
// SHA-256 хэш токена, сырое значение уходит пользователю в ссылке.
type ResetToken struct {
	// ID — UUID записи
	ID string
	// UserID — пользователь, для которого выпущен токен
	UserID string
	// TokenHash — SHA-256 хэш сырого токена (hex)
	TokenHash string
	// ExpiresAt — срок действия
	ExpiresAt time.Time
	// UsedAt — время использования (nil — ещё не использован)
	UsedAt *time.Time
	// CreatedAt — время выпуска
	CreatedAt time.Time
}

// Usable сообщает, пригоден ли токен: не использован и не просрочен.
func (t *ResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
