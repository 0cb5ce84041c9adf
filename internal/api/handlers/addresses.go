// addresses.go — обработчики /api/addresses endpoints.
// CRUD адресов доставки аутентифицированного пользователя.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/errors"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/middleware"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/service"
)

// addressRequest — тело POST/PUT /api/addresses.
type addressRequest struct {
	Alias      string `json:"alias"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Floor      string `json:"floor"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	IsDefault  bool   `json:"isDefault"`
}

// addressResponse — адрес в ответе API.
type addressResponse struct {
	ID         string `json:"id"`
	Alias      string `json:"alias"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Floor      string `json:"floor,omitempty"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	IsDefault  bool   `json:"isDefault"`
}

// mapAddress преобразует модель адреса в ответ API.
func mapAddress(a *model.Address) addressResponse {
	return addressResponse{
		ID:         a.ID,
		Alias:      a.Alias,
		Street:     a.Street,
		Number:     a.Number,
		Floor:      a.Floor,
		PostalCode: a.PostalCode,
		City:       a.City,
		IsDefault:  a.IsDefault,
	}
}

// ListAddresses — GET /api/addresses.
// Возвращает адреса вызывающего.
func (h *APIHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.SubjectFromContext(r.Context())
	if userID == "" {
		apierrors.Unauthorized(w, "Требуется аутентификация")
		return
	}

	addrs, err := h.addresses.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("Ошибка получения адресов", "error", err)
		apierrors.InternalError(w, "Ошибка получения адресов")
		return
	}

	items := make([]addressResponse, len(addrs))
	for i, a := range addrs {
		items[i] = mapAddress(a)
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateAddress — POST /api/addresses.
// Создаёт адрес вызывающего.
func (h *APIHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.SubjectFromContext(r.Context())
	if userID == "" {
		apierrors.Unauthorized(w, "Требуется аутентификация")
		return
	}

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	addr, err := h.addresses.Create(r.Context(), userID, service.AddressInput{
		Alias:      req.Alias,
		Street:     req.Street,
		Number:     req.Number,
		Floor:      req.Floor,
		PostalCode: req.PostalCode,
		City:       req.City,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка создания адреса", "error", err)
		apierrors.InternalError(w, "Ошибка создания адреса")
		return
	}

	writeJSON(w, http.StatusCreated, mapAddress(addr))
}

// UpdateAddress — PUT /api/addresses/{id}.
// Обновляет адрес вызывающего. Чужой адрес неотличим от несуществующего.
func (h *APIHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.SubjectFromContext(r.Context())
	if userID == "" {
		apierrors.Unauthorized(w, "Требуется аутентификация")
		return
	}
	id := chi.URLParam(r, "id")

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	addr, err := h.addresses.Update(r.Context(), userID, id, service.AddressInput{
		Alias:      req.Alias,
		Street:     req.Street,
		Number:     req.Number,
		Floor:      req.Floor,
		PostalCode: req.PostalCode,
		City:       req.City,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Адрес не найден")
		default:
			h.logger.Error("Ошибка обновления адреса", "error", err)
			apierrors.InternalError(w, "Ошибка обновления адреса")
		}
		return
	}

	writeJSON(w, http.StatusOK, mapAddress(addr))
}

// DeleteAddress — DELETE /api/addresses/{id}.
// Удаляет адрес вызывающего.
func (h *APIHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.SubjectFromContext(r.Context())
	if userID == "" {
		apierrors.Unauthorized(w, "Требуется аутентификация")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.addresses.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Адрес не найден")
			return
		}
		h.logger.Error("Ошибка удаления адреса", "error", err)
		apierrors.InternalError(w, "Ошибка удаления адреса")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
