// Точка входа backend Lavandaria Gaivota.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// создаёт сервисный слой и API handlers, запускает мониторинг зависимостей
// (topologymetrics), HTTP-сервер с JWT middleware и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/handlers"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/api/middleware"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/config"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/database"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/identity"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/repository"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/server"
	"github.com/JoseDuarte02/lavandaria-gaivota-backend/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Backend Lavandaria Gaivota запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if os.Getenv("LG_DEPHEALTH_GROUP") == "" {
		logger.Warn("LG_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL будет идти через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Issuer токенов (HS256)
	issuer := identity.NewTokenIssuer(
		cfg.JWTSecret,
		cfg.JWTIssuer,
		cfg.JWTAudiences,
		cfg.TokenValidity,
		cfg.JWTLeeway,
	)

	// 6. Хранилище (репозитории + транзакции)
	store := repository.NewStore(pool)

	// 7. Services
	authSvc := service.NewAuthService(
		store, issuer,
		cfg.FrontendURL, cfg.ResetTokenValidity,
		logger,
	)
	addressSvc := service.NewAddressService(store, logger)
	orderSvc := service.NewOrderService(store, logger)
	catalogSvc := service.NewCatalogService(
		store.Services(),
		cfg.CatalogCacheSize, cfg.CatalogCacheTTL,
		logger,
	)

	// 8. Bootstrap административного пользователя
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Warn("LG_ADMIN_EMAIL/LG_ADMIN_PASSWORD не заданы, " +
			"административный пользователь не создаётся")
	} else if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminFullName, cfg.AdminPassword); err != nil {
		logger.Error("Ошибка создания административного пользователя",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 9. Readiness checker (PostgreSQL)
	pgChecker := database.NewReadinessChecker(pool)
	healthHandler := handlers.NewHealthHandler(pgChecker)

	// 10. API handler
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		authSvc,
		addressSvc,
		orderSvc,
		catalogSvc,
		logger,
	)

	// 11. JWT middleware
	jwtAuth := middleware.NewJWTAuth(issuer, logger)
	logger.Info("JWT middleware инициализирован",
		slog.String("issuer", cfg.JWTIssuer),
		slog.String("token_validity", cfg.TokenValidity.String()),
	)

	// 12. topologymetrics — мониторинг зависимостей (PostgreSQL)
	var dephealthSvc *service.DephealthService
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"laundry-api",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 13. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, jwtAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 14. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Backend Lavandaria Gaivota остановлен")
}
