// Пакет config — загрузка и валидация конфигурации backend Lavandaria Gaivota
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации сервиса.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- JWT ---

	// Секретный ключ подписи токенов (HS256), минимум 32 байта
	JWTSecret string
	// Issuer выдаваемых токенов
	JWTIssuer string
	// Audience выдаваемых токенов (через запятую)
	JWTAudiences []string
	// Срок действия access-токена
	TokenValidity time.Duration
	// Допустимое отклонение времени при проверке JWT
	JWTLeeway time.Duration

	// --- Восстановление пароля ---

	// Базовый URL frontend для ссылки восстановления пароля
	FrontendURL string
	// Срок действия reset-токена
	ResetTokenValidity time.Duration

	// --- Администратор ---

	// Email администратора, создаваемого при старте
	// (пусто — администратор не создаётся)
	AdminEmail string
	// Пароль администратора
	AdminPassword string
	// Полное имя администратора
	AdminFullName string

	// --- Кэш каталога услуг ---

	// Максимальное количество записей в LRU-кэше каталога
	CatalogCacheSize int
	// TTL записи кэша каталога
	CatalogCacheTTL time.Duration

	// --- Мониторинг зависимостей ---

	// Имя группы topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// LG_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("LG_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("LG_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("LG_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// LG_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("LG_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LG_LOG_LEVEL: %w", err)
	}

	// LG_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("LG_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LG_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// LG_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("LG_DB_HOST")
	if err != nil {
		return nil, err
	}

	// LG_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("LG_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("LG_DB_PORT: %w", err)
	}

	// LG_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("LG_DB_NAME")
	if err != nil {
		return nil, err
	}

	// LG_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("LG_DB_USER")
	if err != nil {
		return nil, err
	}

	// LG_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("LG_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// LG_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("LG_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("LG_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- JWT ---

	// LG_JWT_SECRET — обязательный, минимум 32 байта для HS256
	cfg.JWTSecret, err = getEnvRequired("LG_JWT_SECRET")
	if err != nil {
		return nil, err
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("LG_JWT_SECRET: длина %d байт, требуется минимум 32 для HS256", len(cfg.JWTSecret))
	}

	// LG_JWT_ISSUER — issuer токенов (по умолчанию lavandaria-gaivota)
	cfg.JWTIssuer = getEnvDefault("LG_JWT_ISSUER", "lavandaria-gaivota")

	// LG_JWT_AUDIENCES — audiences через запятую (по умолчанию lavandaria-frontend)
	cfg.JWTAudiences = parseCSV(getEnvDefault("LG_JWT_AUDIENCES", "lavandaria-frontend"))

	// LG_TOKEN_VALIDITY — срок действия токена (по умолчанию 60m)
	cfg.TokenValidity, err = getEnvDuration("LG_TOKEN_VALIDITY", 60*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("LG_TOKEN_VALIDITY: %w", err)
	}

	// LG_JWT_LEEWAY — допустимое отклонение времени (по умолчанию 30s)
	cfg.JWTLeeway, err = getEnvDuration("LG_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LG_JWT_LEEWAY: %w", err)
	}

	// --- Восстановление пароля ---

	// LG_FRONTEND_URL — базовый URL frontend (по умолчанию http://localhost:3000)
	cfg.FrontendURL = strings.TrimRight(getEnvDefault("LG_FRONTEND_URL", "http://localhost:3000"), "/")

	// LG_RESET_TOKEN_VALIDITY — срок действия reset-токена (по умолчанию 1h)
	cfg.ResetTokenValidity, err = getEnvDuration("LG_RESET_TOKEN_VALIDITY", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("LG_RESET_TOKEN_VALIDITY: %w", err)
	}

	// --- Администратор ---

	// LG_ADMIN_EMAIL / LG_ADMIN_PASSWORD — учётные данные административного
	// пользователя, создаваемого при старте. Пустые значения — bootstrap
	// пропускается (админские операции будут недоступны).
	cfg.AdminEmail = strings.TrimSpace(getEnvDefault("LG_ADMIN_EMAIL", ""))
	cfg.AdminPassword = getEnvDefault("LG_ADMIN_PASSWORD", "")

	// LG_ADMIN_FULL_NAME — имя администратора (по умолчанию Administrador)
	cfg.AdminFullName = getEnvDefault("LG_ADMIN_FULL_NAME", "Administrador")

	// --- Кэш каталога услуг ---

	// LG_CATALOG_CACHE_SIZE — размер LRU-кэша каталога (по умолчанию 16)
	cfg.CatalogCacheSize, err = getEnvInt("LG_CATALOG_CACHE_SIZE", 16)
	if err != nil {
		return nil, fmt.Errorf("LG_CATALOG_CACHE_SIZE: %w", err)
	}
	if cfg.CatalogCacheSize < 1 {
		return nil, fmt.Errorf("LG_CATALOG_CACHE_SIZE: значение %d должно быть положительным", cfg.CatalogCacheSize)
	}

	// LG_CATALOG_CACHE_TTL — TTL кэша каталога (по умолчанию 5m)
	cfg.CatalogCacheTTL, err = getEnvDuration("LG_CATALOG_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("LG_CATALOG_CACHE_TTL: %w", err)
	}

	// --- Мониторинг зависимостей ---

	// LG_DEPHEALTH_GROUP — группа topologymetrics (по умолчанию lavandaria)
	cfg.DephealthGroup = getEnvDefault("LG_DEPHEALTH_GROUP", "lavandaria")

	// LG_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("LG_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LG_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// LG_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("LG_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LG_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для topologymetrics).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
