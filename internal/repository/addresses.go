package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
)

// AddressRepository — интерфейс доступа к таблице addresses.
// Все операции чтения/изменения, кроме Create, ограничены владельцем:
// чужой или несуществующий адрес неразличимо даёт ErrNotFound.
type AddressRepository interface {
	// Create создаёт новый адрес.
	Create(ctx context.Context, a *model.Address) error
	// GetByID возвращает адрес пользователя userID по UUID.
	GetByID(ctx context.Context, userID, id string) (*model.Address, error)
	// ListByUser возвращает все адреса пользователя.
	ListByUser(ctx context.Context, userID string) ([]*model.Address, error)
	// Update обновляет адрес пользователя userID.
	Update(ctx context.Context, a *model.Address) error
	// Delete удаляет адрес пользователя userID.
	Delete(ctx context.Context, userID, id string) error
	// ClearDefault снимает флаг is_default со всех адресов пользователя,
	// кроме excludeID (UUID создаваемого/обновляемого адреса).
	ClearDefault(ctx context.Context, userID, excludeID string) error
}

// addressRepo — реализация AddressRepository.
type addressRepo struct {
	db DBTX
}

// NewAddressRepository создаёт репозиторий адресов.
func NewAddressRepository(db DBTX) AddressRepository {
	return &addressRepo{db: db}
}

const addressColumns = `id, user_id, alias, street, number, floor, postal_code, city, is_default, created_at, updated_at`

func (r *addressRepo) Create(ctx context.Context, a *model.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, alias, street, number, floor, postal_code, city, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		a.ID, a.UserID, a.Alias, a.Street, a.Number, a.Floor,
		a.PostalCode, a.City, a.IsDefault,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: у пользователя уже есть адрес по умолчанию", ErrConflict)
		}
		return fmt.Errorf("ошибка создания адреса: %w", err)
	}
	return nil
}

func (r *addressRepo) GetByID(ctx context.Context, userID, id string) (*model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`

	a := &model.Address{}
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&a.ID, &a.UserID, &a.Alias, &a.Street, &a.Number, &a.Floor,
		&a.PostalCode, &a.City, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения адреса: %w", err)
	}
	return a, nil
}

func (r *addressRepo) ListByUser(ctx context.Context, userID string) ([]*model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка адресов: %w", err)
	}
	defer rows.Close()

	var result []*model.Address
	for rows.Next() {
		a := &model.Address{}
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Alias, &a.Street, &a.Number, &a.Floor,
			&a.PostalCode, &a.City, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования адреса: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *addressRepo) Update(ctx context.Context, a *model.Address) error {
	query := `
		UPDATE addresses
		SET alias = $3, street = $4, number = $5, floor = $6,
			postal_code = $7, city = $8, is_default = $9, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		a.ID, a.UserID, a.Alias, a.Street, a.Number, a.Floor,
		a.PostalCode, a.City, a.IsDefault,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: у пользователя уже есть адрес по умолчанию", ErrConflict)
		}
		return fmt.Errorf("ошибка обновления адреса: %w", err)
	}
	return nil
}

func (r *addressRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления адреса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *addressRepo) ClearDefault(ctx context.Context, userID, excludeID string) error {
	// Один UPDATE снимает текущий default, исключая сам обновляемый адрес.
	// Вызывается внутри той же транзакции, что и Create/Update.
	query := `UPDATE addresses SET is_default = FALSE, updated_at = now()
		WHERE user_id = $1 AND is_default AND id <> $2`

	if _, err := r.db.Exec(ctx, query, userID, excludeID); err != nil {
		return fmt.Errorf("ошибка снятия адреса по умолчанию: %w", err)
	}
	return nil
}
