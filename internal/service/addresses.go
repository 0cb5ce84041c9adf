// addresses.go — сервис адресов доставки.
// Держит инвариант «не более одного адреса по умолчанию на пользователя»:
// установка is_default снимает флаг с остальных адресов в той же транзакции.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/repository"
)

// AddressInput — данные для создания/обновления адреса.
type AddressInput struct {
	Alias      string
	Street     string
	Number     string
	Floor      string
	PostalCode string
	City       string
	IsDefault  bool
}

// AddressService — бизнес-логика адресов.
// Все операции ограничены владельцем: чужой адрес неотличим
// от несуществующего (ErrNotFound).
type AddressService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewAddressService создаёт сервис адресов.
func NewAddressService(store repository.Store, logger *slog.Logger) *AddressService {
	return &AddressService{
		store:  store,
		logger: logger.With(slog.String("component", "address_service")),
	}
}

// validate проверяет обязательные поля и формат почтового индекса.
func (in *AddressInput) validate() error {
	in.Alias = strings.TrimSpace(in.Alias)
	in.Street = strings.TrimSpace(in.Street)
	in.Number = strings.TrimSpace(in.Number)
	in.Floor = strings.TrimSpace(in.Floor)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.City = strings.TrimSpace(in.City)

	switch {
	case in.Alias == "":
		return fmt.Errorf("%w: метка адреса обязательна", ErrValidation)
	case in.Street == "":
		return fmt.Errorf("%w: улица обязательна", ErrValidation)
	case in.Number == "":
		return fmt.Errorf("%w: номер дома обязателен", ErrValidation)
	case in.City == "":
		return fmt.Errorf("%w: населённый пункт обязателен", ErrValidation)
	case !model.ValidPostalCode(in.PostalCode):
		return fmt.Errorf("%w: почтовый индекс должен иметь формат NNNN-NNN", ErrValidation)
	}
	return nil
}

// List возвращает адреса пользователя.
func (s *AddressService) List(ctx context.Context, userID string) ([]*model.Address, error) {
	return s.store.Addresses().ListByUser(ctx, userID)
}

// Get возвращает адрес пользователя по id.
func (s *AddressService) Get(ctx context.Context, userID, id string) (*model.Address, error) {
	addr, err := s.store.Addresses().GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return addr, nil
}

// Create создаёт адрес. Если is_default — в той же транзакции
// снимает флаг с остальных адресов пользователя.
func (s *AddressService) Create(ctx context.Context, userID string, in AddressInput) (*model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	addr := &model.Address{
		ID:         uuid.New().String(),
		UserID:     userID,
		Alias:      in.Alias,
		Street:     in.Street,
		Number:     in.Number,
		Floor:      in.Floor,
		PostalCode: in.PostalCode,
		City:       in.City,
		IsDefault:  in.IsDefault,
	}

	err := s.store.WithTx(ctx, func(st repository.Store) error {
		if addr.IsDefault {
			if err := st.Addresses().ClearDefault(ctx, userID, addr.ID); err != nil {
				return err
			}
		}
		return st.Addresses().Create(ctx, addr)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("адрес создан",
		slog.String("user_id", userID),
		slog.String("address_id", addr.ID),
		slog.Bool("is_default", addr.IsDefault))
	return addr, nil
}

// Update обновляет адрес пользователя. Владелец адреса неизменяем.
// Если is_default — в той же транзакции снимает флаг с остальных адресов.
func (s *AddressService) Update(ctx context.Context, userID, id string, in AddressInput) (*model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *model.Address
	err := s.store.WithTx(ctx, func(st repository.Store) error {
		repo := st.Addresses()

		addr, err := repo.GetByID(ctx, userID, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		addr.Alias = in.Alias
		addr.Street = in.Street
		addr.Number = in.Number
		addr.Floor = in.Floor
		addr.PostalCode = in.PostalCode
		addr.City = in.City
		addr.IsDefault = in.IsDefault

		if addr.IsDefault {
			if err := repo.ClearDefault(ctx, userID, addr.ID); err != nil {
				return err
			}
		}
		if err := repo.Update(ctx, addr); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		updated = addr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("адрес обновлён",
		slog.String("user_id", userID),
		slog.String("address_id", id))
	return updated, nil
}

// Delete удаляет адрес пользователя.
// Удаление адреса по умолчанию не назначает новый default.
func (s *AddressService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.Addresses().Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.logger.Info("адрес удалён",
		slog.String("user_id", userID),
		slog.String("address_id", id))
	return nil
}
