package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
)

// ServiceRepository — интерфейс CRUD для таблицы services (каталог услуг).
type ServiceRepository interface {
	// Create создаёт новую услугу каталога.
	Create(ctx context.Context, s *model.Service) error
	// GetByID возвращает услугу по UUID.
	GetByID(ctx context.Context, id string) (*model.Service, error)
	// List возвращает все услуги каталога.
	List(ctx context.Context) ([]*model.Service, error)
	// Update обновляет услугу.
	Update(ctx context.Context, s *model.Service) error
	// Delete удаляет услугу из каталога.
	Delete(ctx context.Context, id string) error
}

// serviceRepo — реализация ServiceRepository.
type serviceRepo struct {
	db DBTX
}

// NewServiceRepository создаёт репозиторий каталога услуг.
func NewServiceRepository(db DBTX) ServiceRepository {
	return &serviceRepo{db: db}
}

const serviceColumns = `id, name, description, price, unit, created_at, updated_at`

func (r *serviceRepo) Create(ctx context.Context, s *model.Service) error {
	query := `
		INSERT INTO services (id, name, description, price, unit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.Name, s.Description, s.Price, s.Unit,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания услуги: %w", err)
	}
	return nil
}

func (r *serviceRepo) GetByID(ctx context.Context, id string) (*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	s := &model.Service{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.Price, &s.Unit,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения услуги: %w", err)
	}
	return s, nil
}

func (r *serviceRepo) List(ctx context.Context) ([]*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения каталога услуг: %w", err)
	}
	defer rows.Close()

	var result []*model.Service
	for rows.Next() {
		s := &model.Service{}
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.Price, &s.Unit,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования услуги: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *serviceRepo) Update(ctx context.Context, s *model.Service) error {
	query := `
		UPDATE services
		SET name = $2, description = $3, price = $4, unit = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.Name, s.Description, s.Price, s.Unit,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления услуги: %w", err)
	}
	return nil
}

func (r *serviceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления услуги: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
