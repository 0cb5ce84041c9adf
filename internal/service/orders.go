// orders.go — сервис жизненного цикла заказов.
// Создание замораживает адрес и цены позиций; итог считается сервером.
// Чтение скрывает чужие заказы за ErrNotFound; отмена доступна
// только владельцу и только из статуса Pendente.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/ownership"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/repository"
)

// maxItemQuantity — предел количества в одной позиции.
const maxItemQuantity = 100

// OrderItemInput — позиция создаваемого заказа.
// Описание и цена приходят от клиента и замораживаются как снимок.
type OrderItemInput struct {
	ServiceDescription string
	Quantity           int
	UnitPrice          decimal.Decimal
}

// CreateOrderInput — данные создания заказа.
type CreateOrderInput struct {
	AddressID string
	Notes     string
	Items     []OrderItemInput
}

// OrderService — бизнес-логика заказов.
type OrderService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(store repository.Store, logger *slog.Logger) *OrderService {
	return &OrderService{
		store:  store,
		logger: logger.With(slog.String("component", "order_service")),
	}
}

// Create создаёт заказ в статусе Pendente.
// Адрес обязан принадлежать вызывающему, иначе ErrInvalidAddress.
// Строка адреса замораживается на момент создания; итоговая сумма
// вычисляется сервером из позиций. Заказ и позиции — одна транзакция.
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range in.Items {
		if item.ServiceDescription == "" {
			return nil, fmt.Errorf("%w: описание услуги обязательно", ErrValidation)
		}
		if item.Quantity < 1 || item.Quantity > maxItemQuantity {
			return nil, fmt.Errorf("%w: количество должно быть от 1 до %d",
				ErrValidation, maxItemQuantity)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: цена не может быть отрицательной", ErrValidation)
		}
	}

	// Адрес разрешается только среди адресов вызывающего:
	// чужой или несуществующий id даёт одинаковый отказ.
	addr, err := s.store.Addresses().GetByID(ctx, userID, in.AddressID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidAddress
		}
		return nil, err
	}

	order := &model.Order{
		ID:            uuid.New().String(),
		UserID:        userID,
		OrderDate:     time.Now().UTC(),
		Status:        model.StatusPendente,
		PickupAddress: addr.Format(),
		Notes:         in.Notes,
	}
	for i, item := range in.Items {
		order.Items = append(order.Items, &model.OrderItem{
			ID:                 uuid.New().String(),
			OrderID:            order.ID,
			Position:           i + 1,
			ServiceDescription: item.ServiceDescription,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
		})
	}
	order.TotalPrice = model.ComputeTotal(order.Items)

	err = s.store.WithTx(ctx, func(st repository.Store) error {
		return st.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("заказ создан",
		slog.String("user_id", userID),
		slog.String("order_id", order.ID),
		slog.String("total_price", order.TotalPrice.String()),
		slog.Int("items", len(order.Items)))
	return order, nil
}

// Get возвращает заказ по id для вызывающего caller.
// Чужой заказ неотличим от несуществующего: обе ситуации — ErrNotFound.
// Админ видит любой заказ.
func (s *OrderService) Get(ctx context.Context, caller ownership.Identity, id string) (*model.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !ownership.CanAccess(caller, order.UserID, model.RoleAdmin) {
		return nil, ErrNotFound
	}
	return order, nil
}

// ListMine возвращает заказы пользователя, новые первыми.
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID)
}

// ListAll возвращает все заказы (админ), новые первыми.
// statusName — опциональный фильтр; неизвестное имя — ErrInvalidStatus.
func (s *OrderService) ListAll(ctx context.Context, statusName string) ([]*model.Order, error) {
	var status *model.OrderStatus
	if statusName != "" {
		st, err := model.ParseOrderStatus(statusName)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, statusName)
		}
		status = &st
	}
	return s.store.Orders().ListAll(ctx, status)
}

// UpdateStatus перезаписывает статус заказа (админ).
// Перезапись безусловная: админ может перевести заказ в любой статус.
func (s *OrderService) UpdateStatus(ctx context.Context, id, statusName string) (*model.Order, error) {
	status, err := model.ParseOrderStatus(statusName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, statusName)
	}

	if err := s.store.Orders().UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("статус заказа обновлён",
		slog.String("order_id", id),
		slog.String("status", string(status)))
	return order, nil
}

// Cancel отменяет заказ владельца.
// Строка заказа блокируется (FOR UPDATE) до проверки статуса:
// отмена допустима только из Pendente, иначе ErrNotCancellable.
func (s *OrderService) Cancel(ctx context.Context, userID, id string) (*model.Order, error) {
	var cancelled *model.Order
	err := s.store.WithTx(ctx, func(st repository.Store) error {
		repo := st.Orders()

		order, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		// Отмена — только владельцем, без админского обхода.
		if order.UserID != userID {
			return ErrNotFound
		}
		if !order.Status.CanCancel() {
			return ErrNotCancellable
		}

		if err := repo.UpdateStatus(ctx, id, model.StatusCancelado); err != nil {
			return err
		}
		order.Status = model.StatusCancelado
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("заказ отменён",
		slog.String("user_id", userID),
		slog.String("order_id", id))
	return cancelled, nil
}
