package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service — позиция каталога услуг прачечной.
// Хранится в таблице services. Заказы не ссылаются на услуги по id —
// позиции заказа содержат снимок описания и цены.
type Service struct {
	// ID — UUID услуги
	ID string
	// Name — название (например, "Lavar e Secar")
	Name string
	// Description — описание (например, "Roupa do dia-a-dia")
	Description string
	// Price — цена за единицу, строго положительная
	Price decimal.Decimal
	// Unit — единица измерения (Kg, unid., peça)
	Unit string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
