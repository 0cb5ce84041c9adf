// Пакет server — HTTP-сервер backend с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/handlers"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/middleware"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/config"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/domain/model"
)

// Server — HTTP-сервер backend.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// jwtAuth — JWT middleware (может быть nil для тестирования без auth).
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler, jwtAuth *middleware.JWTAuth) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// JWT middleware с исключениями для публичных endpoints.
	// Health и metrics проверяются Kubernetes напрямую.
	if jwtAuth != nil {
		router.Use(jwtAuthWithExclusions(jwtAuth,
			"/health/",
			"/metrics",
			"/api/auth/register",
			"/api/auth/login",
			"/api/auth/forgot-password",
			"/api/auth/reset-password",
			"GET /api/services",
		))
	}

	registerRoutes(router, handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// registerRoutes подключает все маршруты API к роутеру.
func registerRoutes(router chi.Router, h *handlers.APIHandler) {
	// Health и метрики
	router.Get("/health/live", h.HealthLive)
	router.Get("/health/ready", h.HealthReady)
	router.Get("/metrics", h.GetMetrics)

	// Аутентификация
	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.Post("/change-password", h.ChangePassword)
	})

	// Адреса доставки
	router.Route("/api/addresses", func(r chi.Router) {
		r.Get("/", h.ListAddresses)
		r.Post("/", h.CreateAddress)
		r.Put("/{id}", h.UpdateAddress)
		r.Delete("/{id}", h.DeleteAddress)
	})

	// Заказы
	router.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListMyOrders)

		// Админские маршруты регистрируются до "/{id}",
		// чтобы "all" не разбирался как id заказа.
		r.With(middleware.RequireRole(model.RoleAdmin)).Get("/all", h.ListAllOrders)
		r.With(middleware.RequireRole(model.RoleAdmin)).Put("/{id}/status", h.UpdateOrderStatus)

		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}/cancel", h.CancelOrder)
	})

	// Каталог услуг: чтение публичное, мутации — админ
	router.Route("/api/services", func(r chi.Router) {
		r.Get("/", h.ListServices)
		r.With(middleware.RequireRole(model.RoleAdmin)).Post("/", h.CreateService)
		r.With(middleware.RequireRole(model.RoleAdmin)).Put("/{id}", h.UpdateService)
		r.With(middleware.RequireRole(model.RoleAdmin)).Delete("/{id}", h.DeleteService)
	})
}

// jwtAuthWithExclusions оборачивает JWTAuth.Middleware(), пропуская указанные пути.
// Исключение вида "/prefix" пропускает все пути с этим префиксом;
// исключение вида "METHOD /prefix" — только запросы с указанным методом.
func jwtAuthWithExclusions(jwtAuth *middleware.JWTAuth, exclusions ...string) func(http.Handler) http.Handler {
	jwtMiddleware := jwtAuth.Middleware()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, excl := range exclusions {
				prefix := excl
				if method, rest, found := strings.Cut(excl, " "); found && strings.HasPrefix(rest, "/") {
					if r.Method != method {
						continue
					}
					prefix = rest
				}
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			jwtMiddleware(next).ServeHTTP(w, r)
		})
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
