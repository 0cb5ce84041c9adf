// Пакет model — доменные модели backend Lavandaria Gaivota.
package model

import "time"

// Роли пользователей.
const (
	// RoleAdmin — администратор: управление каталогом и статусами заказов.
	RoleAdmin = "Admin"
	// RoleUser — обычный клиент.
	RoleUser = "User"
)

// User — зарегистрированный клиент или администратор.
// Хранится в таблице users.
type User struct {
	// ID — UUID пользователя
	ID string
	// Email — адрес электронной почты (уникален без учёта регистра)
	Email string
	// FullName — полное имя
	FullName string
	// PasswordHash — bcrypt-хэш пароля
	PasswordHash string
	// Roles — набор ролей (Admin, User)
	Roles []string
	// CreatedAt — время регистрации
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// HasRole проверяет наличие роли у пользователя.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
