// auth.go — сервис аутентификации: регистрация, вход,
// смена и восстановление пароля.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/identity"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/repository"
)

// Границы валидации регистрационных данных.
const (
	minFullNameLength = 3
	maxFullNameLength = 100
)

// AuthService — бизнес-логика аутентификации.
// Сервис сам хранит пароли (bcrypt) и выпускает JWT —
// внешний Identity Provider не используется.
type AuthService struct {
	store              repository.Store
	issuer             *identity.TokenIssuer
	frontendURL        string
	resetTokenValidity time.Duration
	logger             *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(
	store repository.Store,
	issuer *identity.TokenIssuer,
	frontendURL string,
	resetTokenValidity time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:              store,
		issuer:             issuer,
		frontendURL:        strings.TrimRight(frontendURL, "/"),
		resetTokenValidity: resetTokenValidity,
		logger:             logger.With(slog.String("component", "auth_service")),
	}
}

// Session — результат успешного входа.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// Register регистрирует нового пользователя с ролью User.
// Возвращает ErrConflict при дублирующемся email (без учёта регистра).
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*model.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)

	if len(fullName) < minFullNameLength || len(fullName) > maxFullNameLength {
		return nil, fmt.Errorf("%w: имя должно быть от %d до %d символов",
			ErrValidation, minFullNameLength, maxFullNameLength)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: некорректный email", ErrValidation)
	}
	if !identity.ValidPassword(password) {
		return nil, fmt.Errorf("%w: пароль слишком короткий", ErrValidation)
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Roles:        []string{model.RoleUser},
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: email уже зарегистрирован", ErrConflict)
		}
		return nil, err
	}

	s.logger.Info("пользователь зарегистрирован",
		slog.String("user_id", user.ID))
	return user, nil
}

// EnsureAdmin создаёт административного пользователя при старте сервиса.
// Пользователь с таким email уже существует — ничего не меняется.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, fullName, password string) error {
	email = strings.TrimSpace(email)

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		s.logger.Info("административный пользователь уже существует")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if !identity.ValidPassword(password) {
		return fmt.Errorf("%w: пароль администратора слишком короткий", ErrValidation)
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Roles:        []string{model.RoleAdmin},
	}
	if err := s.store.Users().Create(ctx, admin); err != nil {
		// Конкурентный старт второй реплики уже создал администратора.
		if errors.Is(err, repository.ErrConflict) {
			return nil
		}
		return err
	}

	s.logger.Info("административный пользователь создан",
		slog.String("user_id", admin.ID))
	return nil
}

// Login проверяет учётные данные и выпускает JWT.
// Неизвестный email и неверный пароль неразличимо дают ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !identity.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("успешный вход",
		slog.String("user_id", user.ID))
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ChangePassword меняет пароль аутентифицированного пользователя.
// Текущий пароль обязан совпасть, иначе ErrInvalidCredentials.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !identity.CheckPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}
	if !identity.ValidPassword(newPassword) {
		return fmt.Errorf("%w: пароль слишком короткий", ErrValidation)
	}

	hash, err := identity.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info("пароль изменён", slog.String("user_id", userID))
	return nil
}

// ForgotPassword выпускает одноразовый токен сброса пароля.
// Всегда завершается успешно — существование email не раскрывается.
// Ссылка для письма логируется; доставка почты — внешний коллаборатор.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Не раскрываем, зарегистрирован ли email.
			s.logger.Info("запрос сброса пароля для неизвестного email")
			return nil
		}
		return err
	}

	token, tokenHash, err := identity.NewResetToken()
	if err != nil {
		return err
	}

	// Попутно вычищаем просроченные токены пользователя.
	if err := s.store.ResetTokens().DeleteExpired(ctx, user.ID); err != nil {
		s.logger.Warn("не удалось удалить просроченные reset-токены",
			slog.String("user_id", user.ID), slog.Any("error", err))
	}

	rt := &model.ResetToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().UTC().Add(s.resetTokenValidity),
	}
	if err := s.store.ResetTokens().Create(ctx, rt); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/resetar-password/%s?email=%s",
		s.frontendURL, url.PathEscape(token), url.QueryEscape(user.Email))
	s.logger.Info("выпущен токен сброса пароля",
		slog.String("user_id", user.ID),
		slog.String("reset_link", link),
		slog.Time("expires_at", rt.ExpiresAt))
	return nil
}

// ResetPassword завершает сброс пароля по одноразовому токену.
// Любая причина отказа (неизвестный email, невалидный, просроченный или
// использованный токен) неразличимо даёт ErrInvalidResetToken.
// Погашение токена и перезапись хэша — одна транзакция.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if !identity.ValidPassword(newPassword) {
		return fmt.Errorf("%w: пароль слишком короткий", ErrValidation)
	}

	user, err := s.store.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	rt, err := s.store.ResetTokens().GetByHash(ctx, user.ID, identity.HashResetToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if !rt.Usable(time.Now().UTC()) {
		return ErrInvalidResetToken
	}

	hash, err := identity.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(st repository.Store) error {
		// MarkUsed гасит токен только если он ещё не использован —
		// конкурентный повтор с тем же токеном откатится.
		if err := st.ResetTokens().MarkUsed(ctx, rt.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		return st.Users().UpdatePasswordHash(ctx, user.ID, hash)
	})
	if err != nil {
		return err
	}

	s.logger.Info("пароль сброшен по токену", slog.String("user_id", user.ID))
	return nil
}
