// services.go — обработчики /api/services endpoints.
// Публичный каталог услуг и админский CRUD.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	apierrors "github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/errors"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/service"
)

// serviceRequest — тело POST/PUT /api/services.
type serviceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
}

// serviceResponse — услуга каталога в ответе API.
type serviceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
}

// mapService преобразует модель услуги в ответ API.
func mapService(s *model.Service) serviceResponse {
	return serviceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		Unit:        s.Unit,
	}
}

// ListServices — GET /api/services.
// Публичный каталог услуг (через кэш).
func (h *APIHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения каталога", "error", err)
		apierrors.InternalError(w, "Ошибка получения каталога услуг")
		return
	}

	items := make([]serviceResponse, len(services))
	for i, s := range services {
		items[i] = mapService(s)
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateService — POST /api/services.
// Добавляет услугу в каталог (админ).
func (h *APIHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	svc, err := h.catalog.Create(r.Context(), service.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка создания услуги", "error", err)
		apierrors.InternalError(w, "Ошибка создания услуги")
		return
	}

	writeJSON(w, http.StatusCreated, mapService(svc))
}

// UpdateService — PUT /api/services/{id}.
// Обновляет услугу каталога (админ).
func (h *APIHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	svc, err := h.catalog.Update(r.Context(), id, service.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Услуга не найдена")
		default:
			h.logger.Error("Ошибка обновления услуги", "error", err)
			apierrors.InternalError(w, "Ошибка обновления услуги")
		}
		return
	}

	writeJSON(w, http.StatusOK, mapService(svc))
}

// DeleteService — DELETE /api/services/{id}.
// Удаляет услугу из каталога (админ). Существующие заказы не затрагиваются.
func (h *APIHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Услуга не найдена")
			return
		}
		h.logger.Error("Ошибка удаления услуги", "error", err)
		apierrors.InternalError(w, "Ошибка удаления услуги")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
