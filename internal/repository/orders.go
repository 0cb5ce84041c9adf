package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
)

// OrderRepository — интерфейс доступа к таблицам orders и order_items.
// Create вставляет заказ вместе с позициями; атомарность обеспечивается
// конструированием репозитория поверх pgx.Tx.
type OrderRepository interface {
	// Create создаёт заказ и все его позиции.
	Create(ctx context.Context, o *model.Order) error
	// GetByID возвращает заказ с позициями по UUID (без проверки владельца).
	GetByID(ctx context.Context, id string) (*model.Order, error)
	// GetByIDForUpdate возвращает заказ с блокировкой строки (FOR UPDATE).
	// Используется перед проверкой легальности перехода статуса.
	GetByIDForUpdate(ctx context.Context, id string) (*model.Order, error)
	// ListByUser возвращает заказы пользователя, новые первыми.
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	// ListAll возвращает все заказы, новые первыми,
	// с опциональной фильтрацией по статусу.
	ListAll(ctx context.Context, status *model.OrderStatus) ([]*model.Order, error)
	// UpdateStatus перезаписывает статус заказа.
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
	// Delete удаляет заказ (каскадно удаляет позиции).
	Delete(ctx context.Context, id string) error
}

// orderRepo — реализация OrderRepository.
type orderRepo struct {
	db DBTX
}

// NewOrderRepository создаёт репозиторий заказов.
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

// orderColumns — колонки заказа вместе с именем владельца из users.
const orderColumns = `o.id, o.user_id, u.full_name, o.order_date, o.status, o.total_price, o.pickup_address, o.notes, o.created_at, o.updated_at`

const orderFrom = ` FROM orders o JOIN users u ON u.id = o.user_id`

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, order_date, status, total_price, pickup_address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		o.ID, o.UserID, o.OrderDate, string(o.Status), o.TotalPrice,
		o.PickupAddress, o.Notes,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания заказа: %w", err)
	}

	for _, item := range o.Items {
		_, err := r.db.Exec(ctx, `
			INSERT INTO order_items (id, order_id, position, service_description, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.OrderID, item.Position,
			item.ServiceDescription, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("ошибка создания позиции заказа: %w", err)
		}
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return r.getByID(ctx, id, false)
}

func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Order, error) {
	return r.getByID(ctx, id, true)
}

func (r *orderRepo) getByID(ctx context.Context, id string, forUpdate bool) (*model.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE o.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF o`
	}

	o := &model.Order{}
	var status string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.UserID, &o.UserFullName, &o.OrderDate, &status, &o.TotalPrice,
		&o.PickupAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения заказа: %w", err)
	}
	o.Status = model.OrderStatus(status)

	items, err := r.itemsByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + `
		WHERE o.user_id = $1
		ORDER BY o.order_date DESC`

	return r.listOrders(ctx, query, userID)
}

func (r *orderRepo) ListAll(ctx context.Context, status *model.OrderStatus) ([]*model.Order, error) {
	if status != nil {
		query := `SELECT ` + orderColumns + orderFrom + `
			WHERE o.status = $1
			ORDER BY o.order_date DESC`
		return r.listOrders(ctx, query, string(*status))
	}

	query := `SELECT ` + orderColumns + orderFrom + ` ORDER BY o.order_date DESC`
	return r.listOrders(ctx, query)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// listOrders выполняет запрос списка заказов и подгружает позиции.
func (r *orderRepo) listOrders(ctx context.Context, query string, args ...any) ([]*model.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заказов: %w", err)
	}
	defer rows.Close()

	var result []*model.Order
	for rows.Next() {
		o := &model.Order{}
		var status string
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.UserFullName, &o.OrderDate, &status, &o.TotalPrice,
			&o.PickupAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования заказа: %w", err)
		}
		o.Status = model.OrderStatus(status)
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range result {
		items, err := r.itemsByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return result, nil
}

// itemsByOrder возвращает позиции заказа в порядке добавления.
func (r *orderRepo) itemsByOrder(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, position, service_description, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения позиций заказа: %w", err)
	}
	defer rows.Close()

	var items []*model.OrderItem
	for rows.Next() {
		item := &model.OrderItem{}
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.Position,
			&item.ServiceDescription, &item.Quantity, &item.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования позиции заказа: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
