package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store — точка доступа ко всем репозиториям.
// WithTx выполняет fn над копией Store, работающей внутри одной
// транзакции; сервисный слой не зависит от pgx напрямую.
type Store interface {
	Users() UserRepository
	Addresses() AddressRepository
	Orders() OrderRepository
	Services() ServiceRepository
	ResetTokens() ResetTokenRepository

	// WithTx выполняет fn в транзакции: при ошибке — откат, иначе коммит.
	// Вложенный вызов WithTx выполняется в уже открытой транзакции.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// sqlStore — реализация Store поверх pgxpool/pgx.Tx.
type sqlStore struct {
	// pool не nil только вне транзакции
	pool *pgxpool.Pool

	users     UserRepository
	addresses AddressRepository
	orders    OrderRepository
	services  ServiceRepository
	resets    ResetTokenRepository
}

// NewStore создаёт Store поверх пула соединений.
func NewStore(pool *pgxpool.Pool) Store {
	return newSQLStore(pool, pool)
}

func newSQLStore(db DBTX, pool *pgxpool.Pool) *sqlStore {
	return &sqlStore{
		pool:      pool,
		users:     NewUserRepository(db),
		addresses: NewAddressRepository(db),
		orders:    NewOrderRepository(db),
		services:  NewServiceRepository(db),
		resets:    NewResetTokenRepository(db),
	}
}

func (s *sqlStore) Users() UserRepository             { return s.users }
func (s *sqlStore) Addresses() AddressRepository      { return s.addresses }
func (s *sqlStore) Orders() OrderRepository           { return s.orders }
func (s *sqlStore) Services() ServiceRepository       { return s.services }
func (s *sqlStore) ResetTokens() ResetTokenRepository { return s.resets }

// WithTx выполняет fn в транзакции.
func (s *sqlStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		// Уже внутри транзакции
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // откат после коммита — no-op

	if err := fn(newSQLStore(tx, nil)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
