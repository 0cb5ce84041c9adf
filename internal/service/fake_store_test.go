package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/repository"
)

// --- In-memory Store ---

// fakeStore — реализация repository.Store в памяти для unit-тестов
// сервисного слоя. Транзакций нет: WithTx просто вызывает fn над тем же
// хранилищем, откат при ошибке не моделируется.
type fakeStore struct {
	users     map[string]*model.User
	addresses map[string]*model.Address
	orders    map[string]*model.Order
	services  map[string]*model.Service
	resets    map[string]*model.ResetToken
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]*model.User),
		addresses: make(map[string]*model.Address),
		orders:    make(map[string]*model.Order),
		services:  make(map[string]*model.Service),
		resets:    make(map[string]*model.ResetToken),
	}
}

func (f *fakeStore) Users() repository.UserRepository             { return &fakeUsers{f} }
func (f *fakeStore) Addresses() repository.AddressRepository      { return &fakeAddresses{f} }
func (f *fakeStore) Orders() repository.OrderRepository           { return &fakeOrders{f} }
func (f *fakeStore) Services() repository.ServiceRepository       { return &fakeServices{f} }
func (f *fakeStore) ResetTokens() repository.ResetTokenRepository { return &fakeResets{f} }

func (f *fakeStore) WithTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(f)
}

// --- Users ---

type fakeUsers struct{ s *fakeStore }

func (r *fakeUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrConflict
		}
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = u
	return nil
}

func (r *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUsers) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// --- Addresses ---

type fakeAddresses struct{ s *fakeStore }

func (r *fakeAddresses) Create(_ context.Context, a *model.Address) error {
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.s.addresses[a.ID] = &cp
	return nil
}

func (r *fakeAddresses) GetByID(_ context.Context, userID, id string) (*model.Address, error) {
	a, ok := r.s.addresses[id]
	if !ok || a.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAddresses) ListByUser(_ context.Context, userID string) ([]*model.Address, error) {
	var out []*model.Address
	for _, a := range r.s.addresses {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAddresses) Update(_ context.Context, a *model.Address) error {
	existing, ok := r.s.addresses[a.ID]
	if !ok || existing.UserID != a.UserID {
		return repository.ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	r.s.addresses[a.ID] = &cp
	return nil
}

func (r *fakeAddresses) Delete(_ context.Context, userID, id string) error {
	a, ok := r.s.addresses[id]
	if !ok || a.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.addresses, id)
	return nil
}

func (r *fakeAddresses) ClearDefault(_ context.Context, userID, excludeID string) error {
	for _, a := range r.s.addresses {
		if a.UserID == userID && a.ID != excludeID {
			a.IsDefault = false
		}
	}
	return nil
}

// --- Orders ---

type fakeOrders struct{ s *fakeStore }

func (r *fakeOrders) Create(_ context.Context, o *model.Order) error {
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	r.s.orders[o.ID] = o
	return nil
}

// get возвращает копию заказа с подставленным именем владельца,
// как это делает SQL-репозиторий join-ом с users.
func (r *fakeOrders) get(id string) (*model.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	if u, ok := r.s.users[o.UserID]; ok {
		cp.UserFullName = u.FullName
	}
	return &cp, nil
}

func (r *fakeOrders) GetByID(_ context.Context, id string) (*model.Order, error) {
	return r.get(id)
}

func (r *fakeOrders) GetByIDForUpdate(_ context.Context, id string) (*model.Order, error) {
	return r.get(id)
}

func (r *fakeOrders) list(filter func(*model.Order) bool) []*model.Order {
	var out []*model.Order
	for id, o := range r.s.orders {
		if filter(o) {
			cp, _ := r.get(id)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OrderDate.After(out[j].OrderDate)
	})
	return out
}

func (r *fakeOrders) ListByUser(_ context.Context, userID string) ([]*model.Order, error) {
	return r.list(func(o *model.Order) bool { return o.UserID == userID }), nil
}

func (r *fakeOrders) ListAll(_ context.Context, status *model.OrderStatus) ([]*model.Order, error) {
	return r.list(func(o *model.Order) bool {
		return status == nil || o.Status == *status
	}), nil
}

func (r *fakeOrders) UpdateStatus(_ context.Context, id string, status model.OrderStatus) error {
	o, ok := r.s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeOrders) Delete(_ context.Context, id string) error {
	if _, ok := r.s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.orders, id)
	return nil
}

// --- Services (каталог) ---

type fakeServices struct{ s *fakeStore }

func (r *fakeServices) Create(_ context.Context, svc *model.Service) error {
	svc.CreatedAt = time.Now().UTC()
	svc.UpdatedAt = svc.CreatedAt
	cp := *svc
	r.s.services[svc.ID] = &cp
	return nil
}

func (r *fakeServices) GetByID(_ context.Context, id string) (*model.Service, error) {
	svc, ok := r.s.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *svc
	return &cp, nil
}

func (r *fakeServices) List(_ context.Context) ([]*model.Service, error) {
	var out []*model.Service
	for _, svc := range r.s.services {
		cp := *svc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeServices) Update(_ context.Context, svc *model.Service) error {
	if _, ok := r.s.services[svc.ID]; !ok {
		return repository.ErrNotFound
	}
	svc.UpdatedAt = time.Now().UTC()
	cp := *svc
	r.s.services[svc.ID] = &cp
	return nil
}

func (r *fakeServices) Delete(_ context.Context, id string) error {
	if _, ok := r.s.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.services, id)
	return nil
}

// --- Reset tokens ---

type fakeResets struct{ s *fakeStore }

func (r *fakeResets) Create(_ context.Context, t *model.ResetToken) error {
	t.CreatedAt = time.Now().UTC()
	r.s.resets[t.ID] = t
	return nil
}

func (r *fakeResets) GetByHash(_ context.Context, userID, tokenHash string) (*model.ResetToken, error) {
	for _, t := range r.s.resets {
		if t.UserID == userID && t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeResets) MarkUsed(_ context.Context, id string) error {
	t, ok := r.s.resets[id]
	if !ok || t.UsedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	t.UsedAt = &now
	return nil
}

func (r *fakeResets) DeleteExpired(_ context.Context, userID string) error {
	now := time.Now().UTC()
	for id, t := range r.s.resets {
		if t.UserID == userID && now.After(t.ExpiresAt) {
			delete(r.s.resets, id)
		}
	}
	return nil
}
