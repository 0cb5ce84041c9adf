// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден (или принадлежит другому пользователю).
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrInvalidCredentials — неверный email или пароль.
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	// ErrInvalidAddress — адрес доставки не существует или принадлежит другому пользователю.
	ErrInvalidAddress = errors.New("некорректный адрес доставки")
	// ErrInvalidStatus — неизвестный статус заказа.
	ErrInvalidStatus = errors.New("некорректный статус заказа")
	// ErrNotCancellable — заказ уже в обработке и не может быть отменён.
	ErrNotCancellable = errors.New("заказ не может быть отменён в текущем статусе")
	// ErrInvalidResetToken — токен сброса пароля невалиден, просрочен или уже использован.
	ErrInvalidResetToken = errors.New("невалидный или просроченный токен сброса пароля")
	// ErrEmptyOrder — заказ без позиций.
	ErrEmptyOrder = errors.New("заказ должен содержать хотя бы одну позицию")
)
