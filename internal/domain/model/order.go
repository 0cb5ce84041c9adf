package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus — статус заказа. Имена статусов сохранены на португальском,
// как их видит клиентская часть.
type OrderStatus string

// Статусы жизненного цикла заказа.
// Цепочка: Pendente → Recolhido → EmLavagem → ProntoParaEntrega → Entregue.
// Cancelado достижим только из Pendente (отмена владельцем).
const (
	StatusPendente          OrderStatus = "Pendente"
	StatusRecolhido         OrderStatus = "Recolhido"
	StatusEmLavagem         OrderStatus = "EmLavagem"
	StatusProntoParaEntrega OrderStatus = "ProntoParaEntrega"
	StatusEntregue          OrderStatus = "Entregue"
	StatusCancelado         OrderStatus = "Cancelado"
)

// orderStatuses — все допустимые статусы для разбора строки.
var orderStatuses = []OrderStatus{
	StatusPendente,
	StatusRecolhido,
	StatusEmLavagem,
	StatusProntoParaEntrega,
	StatusEntregue,
	StatusCancelado,
}

// ParseOrderStatus разбирает имя статуса без учёта регистра.
// Возвращает ошибку для неизвестного имени.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range orderStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("неизвестный статус заказа: %q", s)
}

// CanCancel сообщает, допустима ли отмена заказа из текущего статуса.
// Отмена разрешена только из Pendente.
func (s OrderStatus) CanCancel() bool {
	return s == StatusPendente
}

// Order — заказ на услуги прачечной.
// Хранится в таблице orders, позиции — в order_items (каскадное удаление).
type Order struct {
	// ID — UUID заказа
	ID string
	// UserID — владелец заказа, неизменяем после создания
	UserID string
	// UserFullName — имя владельца (заполняется при чтении join-ом с users)
	UserFullName string
	// OrderDate — время создания заказа (серверное, UTC)
	OrderDate time.Time
	// Status — текущий статус
	Status OrderStatus
	// TotalPrice — итоговая сумма, вычисляется сервером из позиций
	TotalPrice decimal.Decimal
	// PickupAddress — замороженная строка адреса на момент создания
	PickupAddress string
	// Notes — произвольные заметки клиента
	Notes string
	// Items — позиции заказа в порядке добавления
	Items []*OrderItem
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// OrderItem — позиция заказа. Описание услуги и цена — снимки на момент
// создания, изменения каталога на них не влияют.
type OrderItem struct {
	// ID — UUID позиции
	ID string
	// OrderID — родительский заказ
	OrderID string
	// Position — порядковый номер позиции в заказе
	Position int
	// ServiceDescription — снимок описания услуги
	ServiceDescription string
	// Quantity — количество (>= 1)
	Quantity int
	// UnitPrice — снимок цены за единицу (>= 0)
	UnitPrice decimal.Decimal
}

// Subtotal возвращает стоимость позиции: quantity × unitPrice.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal возвращает сумму заказа по позициям.
func ComputeTotal(items []*OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
