// auth.go — обработчики /api/auth endpoints.
// Регистрация, вход, смена и восстановление пароля.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apierrors "github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/errors"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/middleware"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/service"
)

// registerRequest — тело POST /api/auth/register.
type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest — тело POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse — ответ успешного входа.
type authResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
}

// changePasswordRequest — тело POST /api/auth/change-password.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// forgotPasswordRequest — тело POST /api/auth/forgot-password.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// resetPasswordRequest — тело POST /api/auth/reset-password.
type resetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// messageResponse — generic-ответ с сообщением.
type messageResponse struct {
	Message string `json:"message"`
}

// Register — POST /api/auth/register.
// Регистрирует нового пользователя с ролью User.
func (h *APIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	user, err := h.auth.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrConflict):
			apierrors.Conflict(w, err.Error())
		default:
			h.logger.Error("Ошибка регистрации", "error", err)
			apierrors.InternalError(w, "Ошибка регистрации пользователя")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"userId":   user.ID,
		"email":    user.Email,
		"fullName": user.FullName,
	})
}

// Login — POST /api/auth/login.
// Проверяет учётные данные и возвращает JWT.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apierrors.Unauthorized(w, "Неверный email или пароль")
			return
		}
		h.logger.Error("Ошибка входа", "error", err)
		apierrors.InternalError(w, "Ошибка входа")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token:      session.Token,
		Expiration: session.ExpiresAt,
		UserID:     session.User.ID,
		Email:      session.User.Email,
		FullName:   session.User.FullName,
	})
}

// ChangePassword — POST /api/auth/change-password.
// Меняет пароль аутентифицированного пользователя.
func (h *APIHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.SubjectFromContext(r.Context())
	if userID == "" {
		apierrors.Unauthorized(w, "Требуется аутентификация")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	err := h.auth.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			apierrors.ValidationError(w, "Текущий пароль неверен")
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Пользователь не найден")
		default:
			h.logger.Error("Ошибка смены пароля", "error", err)
			apierrors.InternalError(w, "Ошибка смены пароля")
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Пароль изменён"})
}

// ForgotPassword — POST /api/auth/forgot-password.
// Всегда возвращает один и тот же generic-ответ:
// существование email не раскрывается.
func (h *APIHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		// Внутренняя ошибка тоже не раскрывается наружу,
		// чтобы ответ не зависел от существования email.
		h.logger.Error("Ошибка выпуска reset-токена", "error", err)
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: "Если email зарегистрирован, ссылка для сброса пароля отправлена",
	})
}

// ResetPassword — POST /api/auth/reset-password.
// Любая причина отказа даёт один и тот же generic-ответ.
func (h *APIHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	err := h.auth.ResetPassword(r.Context(), req.Email, req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrInvalidResetToken):
			apierrors.ValidationError(w, "Невалидный или просроченный токен сброса пароля")
		default:
			h.logger.Error("Ошибка сброса пароля", "error", err)
			apierrors.InternalError(w, "Ошибка сброса пароля")
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Пароль сброшен"})
}
