// catalog.go — сервис каталога услуг прачечной.
// Публичное чтение проходит через LRU-кэш с TTL
// (hashicorp/golang-lru/v2/expirable); любая админская мутация
// инвалидирует кэш. Цена услуги строго положительная.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/repository"
)

// catalogCacheKey — ключ единственной кэшируемой записи (весь список услуг).
const catalogCacheKey = "catalog"

// Prometheus-метрики кэша каталога.
var (
	catalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lg_catalog_cache_hits_total",
		Help: "Общее количество попаданий в кэш каталога услуг.",
	})
	catalogCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lg_catalog_cache_misses_total",
		Help: "Общее количество промахов кэша каталога услуг.",
	})
)

// ServiceInput — данные создания/обновления услуги каталога.
type ServiceInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Unit        string
}

// CatalogService — бизнес-логика каталога услуг.
type CatalogService struct {
	svcRepo repository.ServiceRepository
	cache   *expirable.LRU[string, []*model.Service]
	logger  *slog.Logger
}

// NewCatalogService создаёт сервис каталога.
// cacheSize и cacheTTL задают параметры LRU-кэша списка услуг.
func NewCatalogService(
	svcRepo repository.ServiceRepository,
	cacheSize int,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		svcRepo: svcRepo,
		cache:   expirable.NewLRU[string, []*model.Service](cacheSize, nil, cacheTTL),
		logger:  logger.With(slog.String("component", "catalog_service")),
	}
}

// validate проверяет обязательные поля и положительность цены.
func (in *ServiceInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Unit = strings.TrimSpace(in.Unit)

	switch {
	case in.Name == "":
		return fmt.Errorf("%w: название услуги обязательно", ErrValidation)
	case !in.Price.IsPositive():
		return fmt.Errorf("%w: цена должна быть положительной", ErrValidation)
	}
	return nil
}

// List возвращает каталог услуг (публичная операция, через кэш).
func (s *CatalogService) List(ctx context.Context) ([]*model.Service, error) {
	if services, ok := s.cache.Get(catalogCacheKey); ok {
		catalogCacheHitsTotal.Inc()
		return services, nil
	}
	catalogCacheMissesTotal.Inc()

	services, err := s.svcRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Add(catalogCacheKey, services)
	return services, nil
}

// Get возвращает услугу по id (без кэша — админская операция).
func (s *CatalogService) Get(ctx context.Context, id string) (*model.Service, error) {
	svc, err := s.svcRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}

// Create добавляет услугу в каталог и инвалидирует кэш.
func (s *CatalogService) Create(ctx context.Context, in ServiceInput) (*model.Service, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	svc := &model.Service{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Unit:        in.Unit,
	}
	if err := s.svcRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.cache.Remove(catalogCacheKey)

	s.logger.Info("услуга добавлена в каталог",
		slog.String("service_id", svc.ID),
		slog.String("name", svc.Name))
	return svc, nil
}

// Update обновляет услугу и инвалидирует кэш.
func (s *CatalogService) Update(ctx context.Context, id string, in ServiceInput) (*model.Service, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	svc, err := s.svcRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	svc.Name = in.Name
	svc.Description = in.Description
	svc.Price = in.Price
	svc.Unit = in.Unit

	if err := s.svcRepo.Update(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.cache.Remove(catalogCacheKey)

	s.logger.Info("услуга каталога обновлена",
		slog.String("service_id", id))
	return svc, nil
}

// Delete удаляет услугу из каталога и инвалидирует кэш.
// Существующие заказы не затрагиваются — их позиции хранят снимки.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.svcRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.cache.Remove(catalogCacheKey)

	s.logger.Info("услуга удалена из каталога",
		slog.String("service_id", id))
	return nil
}
