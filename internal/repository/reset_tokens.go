package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
)

// ResetTokenRepository — интерфейс доступа к таблице password_reset_tokens.
type ResetTokenRepository interface {
	// Create сохраняет новый reset-токен.
	Create(ctx context.Context, t *model.ResetToken) error
	// GetByHash возвращает токен пользователя по хэшу.
	GetByHash(ctx context.Context, userID, tokenHash string) (*model.ResetToken, error)
	// MarkUsed помечает токен использованным.
	// Возвращает ErrNotFound, если токен уже был использован.
	MarkUsed(ctx context.Context, id string) error
	// DeleteExpired удаляет просроченные токены пользователя.
	DeleteExpired(ctx context.Context, userID string) error
}

// resetTokenRepo — реализация ResetTokenRepository.
type resetTokenRepo struct {
	db DBTX
}

// NewResetTokenRepository создаёт репозиторий reset-токенов.
func NewResetTokenRepository(db DBTX) ResetTokenRepository {
	return &resetTokenRepo{db: db}
}

func (r *resetTokenRepo) Create(ctx context.Context, t *model.ResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания reset-токена: %w", err)
	}
	return nil
}

func (r *resetTokenRepo) GetByHash(ctx context.Context, userID, tokenHash string) (*model.ResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, used_at, created_at
		FROM password_reset_tokens
		WHERE user_id = $1 AND token_hash = $2`

	t := &model.ResetToken{}
	err := r.db.QueryRow(ctx, query, userID, tokenHash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения reset-токена: %w", err)
	}
	return t, nil
}

func (r *resetTokenRepo) MarkUsed(ctx context.Context, id string) error {
	// used_at IS NULL в условии защищает от повторного использования
	// токена конкурентным запросом.
	tag, err := r.db.Exec(ctx,
		`UPDATE password_reset_tokens SET used_at = now() WHERE id = $1 AND used_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("ошибка отметки reset-токена: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *resetTokenRepo) DeleteExpired(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE user_id = $1 AND expires_at < now()`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ошибка удаления просроченных reset-токенов: %w", err)
	}
	return nil
}
