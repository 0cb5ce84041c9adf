package model

import (
	"regexp"
	"time"
)

// postalCodeRe — португальский формат почтового индекса NNNN-NNN.
var postalCodeRe = regexp.MustCompile(`^\d{4}-\d{3}$`)

// Address — адрес забора/доставки белья.
// Хранится в таблице addresses. Принадлежит ровно одному пользователю,
// user_id неизменяем после создания.
type Address struct {
	// ID — UUID адреса
	ID string
	// UserID — владелец адреса
	UserID string
	// Alias — метка адреса (например, "Casa", "Trabalho")
	Alias string
	// Street — улица
	Street string
	// Number — номер дома
	Number string
	// Floor — этаж/квартира (опционально, пустая строка если нет)
	Floor string
	// PostalCode — почтовый индекс в формате NNNN-NNN
	PostalCode string
	// City — населённый пункт
	City string
	// IsDefault — адрес по умолчанию (не более одного на пользователя)
	IsDefault bool
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// ValidPostalCode проверяет формат почтового индекса NNNN-NNN.
func ValidPostalCode(code string) bool {
	return postalCodeRe.MatchString(code)
}

// Format возвращает адрес одной строкой для заморозки в заказе:
// "{street}, {number}[, {floor}], {postalCode} {city}".
// Сегмент floor присутствует только если он не пуст.
func (a *Address) Format() string {
	s := a.Street + ", " + a.Number
	if a.Floor != "" {
		s += ", " + a.Floor
	}
	return s + ", " + a.PostalCode + " " + a.City
}
