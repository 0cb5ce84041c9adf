// orders.go — обработчики /api/orders endpoints.
// Создание, просмотр и отмена заказов; админские список и смена статуса.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	apierrors "github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/errors"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/middleware"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/service"
)

// createOrderItemRequest — позиция в теле POST /api/orders.
type createOrderItemRequest struct {
	ServiceDescription string          `json:"serviceDescription"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
}

// createOrderRequest — тело POST /api/orders.
type createOrderRequest struct {
	AddressID  string                   `json:"addressId"`
	Notes      string                   `json:"notes"`
	OrderItems []createOrderItemRequest `json:"orderItems"`
}

// updateOrderStatusRequest — тело PUT /api/orders/{id}/status.
type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// orderItemResponse — позиция заказа в ответе API.
type orderItemResponse struct {
	ID                 string          `json:"id"`
	ServiceDescription string          `json:"serviceDescription"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
}

// orderResponse — заказ в ответе API.
type orderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	UserFullName  string              `json:"userFullName,omitempty"`
	OrderDate     time.Time           `json:"orderDate"`
	Status        string              `json:"status"`
	TotalPrice    decimal.Decimal     `json:"totalPrice"`
	PickupAddress string              `json:"pickupAddress"`
	Notes         string              `json:"notes,omitempty"`
	OrderItems    []orderItemResponse `json:"orderItems"`
}

// mapOrder преобразует модель заказа в ответ API.
func mapOrder(o *model.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemResponse{
			ID:                 item.ID,
			ServiceDescription: item.ServiceDescription,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
		}
	}
	return orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		UserFullName:  o.UserFullName,
		OrderDate:     o.OrderDate,
		Status:        string(o.Status),
		TotalPrice:    o.TotalPrice,
		PickupAddress: o.PickupAddress,
		Notes:         o.Notes,
		OrderItems:    items,
	}
}

// mapOrders преобразует список заказов.
func mapOrders(orders []*model.Order) []orderResponse {
	result := make([]orderResponse, len(orders))
	for i, o := range orders {
		result[i] = mapOrder(o)
	}
	return result
}

// CreateOrder — POST /api/orders.
// Создаёт заказ вызывающего в статусе Pendente.
func (h *APIHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.SubjectFromContext(r.Context())
	if userID == "" {
		apierrors.Unauthorized(w, "Требуется аутентификация")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	input := service.CreateOrderInput{
		AddressID: req.AddressID,
		Notes:     req.Notes,
	}
	for _, item := range req.OrderItems {
		input.Items = append(input.Items, service.OrderItemInput{
			ServiceDescription: item.ServiceDescription,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
		})
	}

	order, err := h.orders.Create(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			apierrors.ValidationError(w, "Заказ должен содержать хотя бы одну позицию")
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrInvalidAddress):
			apierrors.ValidationError(w, "Некорректный адрес доставки")
		default:
			h.logger.Error("Ошибка создания заказа", "error", err)
			apierrors.InternalError(w, "Ошибка создания заказа")
		}
		return
	}

	writeJSON(w, http.StatusCreated, mapOrder(order))
}

// ListMyOrders — GET /api/orders.
// Возвращает заказы вызывающего, новые первыми.
func (h *APIHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.SubjectFromContext(r.Context())
	if userID == "" {
		apierrors.Unauthorized(w, "Требуется аутентификация")
		return
	}

	orders, err := h.orders.ListMine(r.Context(), userID)
	if err != nil {
		h.logger.Error("Ошибка получения заказов", "error", err)
		apierrors.InternalError(w, "Ошибка получения заказов")
		return
	}

	writeJSON(w, http.StatusOK, mapOrders(orders))
}

// GetOrder — GET /api/orders/{id}.
// Возвращает заказ вызывающего. Чужой заказ неотличим от несуществующего.
// Админ видит любой заказ.
func (h *APIHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Требуется аутентификация")
		return
	}
	id := chi.URLParam(r, "id")

	order, err := h.orders.Get(r.Context(), claims, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Заказ не найден")
			return
		}
		h.logger.Error("Ошибка получения заказа", "error", err)
		apierrors.InternalError(w, "Ошибка получения заказа")
		return
	}

	writeJSON(w, http.StatusOK, mapOrder(order))
}

// CancelOrder — PUT /api/orders/{id}/cancel.
// Отменяет заказ вызывающего; допустимо только из статуса Pendente.
func (h *APIHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.SubjectFromContext(r.Context())
	if userID == "" {
		apierrors.Unauthorized(w, "Требуется аутентификация")
		return
	}
	id := chi.URLParam(r, "id")

	order, err := h.orders.Cancel(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Заказ не найден")
		case errors.Is(err, service.ErrNotCancellable):
			apierrors.ValidationError(w, "Заказ уже в обработке и не может быть отменён")
		default:
			h.logger.Error("Ошибка отмены заказа", "error", err)
			apierrors.InternalError(w, "Ошибка отмены заказа")
		}
		return
	}

	writeJSON(w, http.StatusOK, mapOrder(order))
}

// ListAllOrders — GET /api/orders/all?status=.
// Возвращает все заказы (админ) с опциональным фильтром по статусу.
func (h *APIHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	statusName := r.URL.Query().Get("status")

	orders, err := h.orders.ListAll(r.Context(), statusName)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка получения списка заказов", "error", err)
		apierrors.InternalError(w, "Ошибка получения списка заказов")
		return
	}

	writeJSON(w, http.StatusOK, mapOrders(orders))
}

// UpdateOrderStatus — PUT /api/orders/{id}/status.
// Перезаписывает статус заказа (админ).
func (h *APIHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Заказ не найден")
		default:
			h.logger.Error("Ошибка обновления статуса заказа", "error", err)
			apierrors.InternalError(w, "Ошибка обновления статуса заказа")
		}
		return
	}

	writeJSON(w, http.StatusOK, mapOrder(order))
}
