// handler.go — основной обработчик API.
// Объединяет все доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/service"
)

// APIHandler — основной обработчик API backend.
// Делегирует запросы в сервисный слой.
type APIHandler struct {
	health    *HealthHandler
	auth      *service.AuthService
	addresses *service.AddressService
	orders    *service.OrderService
	catalog   *service.CatalogService
	logger    *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	auth *service.AuthService,
	addresses *service.AddressService,
	orders *service.OrderService,
	catalog *service.CatalogService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:    health,
		auth:      auth,
		addresses: addresses,
		orders:    orders,
		catalog:   catalog,
		logger:    logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
