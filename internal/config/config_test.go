package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения на время теста.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// minimalEnvs возвращает минимальный набор обязательных переменных.
func minimalEnvs() map[string]string {
	return map[string]string{
		"LG_DB_HOST":     "localhost",
		"LG_DB_NAME":     "lavandaria",
		"LG_DB_USER":     "lavandaria",
		"LG_DB_PASSWORD": "secret",
		"LG_JWT_SECRET":  "0123456789abcdef0123456789abcdef",
	}
}

func TestLoad_MinimalConfig(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	// Проверяем значения по умолчанию
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидается 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.DBHost != "localhost" {
		t.Errorf("DBHost = %q, ожидается localhost", cfg.DBHost)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("DBPort = %d, ожидается 5432", cfg.DBPort)
	}
	if cfg.DBSSLMode != "disable" {
		t.Errorf("DBSSLMode = %q, ожидается disable", cfg.DBSSLMode)
	}
	if cfg.JWTIssuer != "lavandaria-gaivota" {
		t.Errorf("JWTIssuer = %q, ожидается lavandaria-gaivota", cfg.JWTIssuer)
	}
	if len(cfg.JWTAudiences) != 1 || cfg.JWTAudiences[0] != "lavandaria-frontend" {
		t.Errorf("JWTAudiences = %v, ожидается [lavandaria-frontend]", cfg.JWTAudiences)
	}
	if cfg.TokenValidity != 60*time.Minute {
		t.Errorf("TokenValidity = %v, ожидается 60m", cfg.TokenValidity)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Errorf("FrontendURL = %q, ожидается http://localhost:3000", cfg.FrontendURL)
	}
	if cfg.ResetTokenValidity != time.Hour {
		t.Errorf("ResetTokenValidity = %v, ожидается 1h", cfg.ResetTokenValidity)
	}
	if cfg.CatalogCacheSize != 16 {
		t.Errorf("CatalogCacheSize = %d, ожидается 16", cfg.CatalogCacheSize)
	}
	if cfg.CatalogCacheTTL != 5*time.Minute {
		t.Errorf("CatalogCacheTTL = %v, ожидается 5m", cfg.CatalogCacheTTL)
	}
	if cfg.DephealthCheckInterval != 15*time.Second {
		t.Errorf("DephealthCheckInterval = %v, ожидается 15s", cfg.DephealthCheckInterval)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	envs := minimalEnvs()
	envs["LG_PORT"] = "9090"
	envs["LG_LOG_LEVEL"] = "debug"
	envs["LG_LOG_FORMAT"] = "text"
	envs["LG_DB_PORT"] = "5433"
	envs["LG_DB_SSL_MODE"] = "require"
	envs["LG_JWT_ISSUER"] = "custom-issuer"
	envs["LG_JWT_AUDIENCES"] = "web, mobile"
	envs["LG_TOKEN_VALIDITY"] = "30m"
	envs["LG_FRONTEND_URL"] = "https://lavandaria.example.com/"
	envs["LG_RESET_TOKEN_VALIDITY"] = "2h"
	envs["LG_CATALOG_CACHE_TTL"] = "1m"
	envs["LG_SHUTDOWN_TIMEOUT"] = "10s"
	setEnvs(t, envs)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, ожидается 9090", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, ожидается Debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, ожидается text", cfg.LogFormat)
	}
	if cfg.DBPort != 5433 {
		t.Errorf("DBPort = %d, ожидается 5433", cfg.DBPort)
	}
	if cfg.DBSSLMode != "require" {
		t.Errorf("DBSSLMode = %q, ожидается require", cfg.DBSSLMode)
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, ожидается custom-issuer", cfg.JWTIssuer)
	}
	if len(cfg.JWTAudiences) != 2 || cfg.JWTAudiences[0] != "web" || cfg.JWTAudiences[1] != "mobile" {
		t.Errorf("JWTAudiences = %v, ожидается [web mobile]", cfg.JWTAudiences)
	}
	if cfg.TokenValidity != 30*time.Minute {
		t.Errorf("TokenValidity = %v, ожидается 30m", cfg.TokenValidity)
	}
	// Завершающий слэш обрезается
	if cfg.FrontendURL != "https://lavandaria.example.com" {
		t.Errorf("FrontendURL = %q, ожидается https://lavandaria.example.com", cfg.FrontendURL)
	}
	if cfg.ResetTokenValidity != 2*time.Hour {
		t.Errorf("ResetTokenValidity = %v, ожидается 2h", cfg.ResetTokenValidity)
	}
	if cfg.CatalogCacheTTL != time.Minute {
		t.Errorf("CatalogCacheTTL = %v, ожидается 1m", cfg.CatalogCacheTTL)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	requiredVars := []string{
		"LG_DB_HOST", "LG_DB_NAME", "LG_DB_USER", "LG_DB_PASSWORD", "LG_JWT_SECRET",
	}

	for _, missing := range requiredVars {
		t.Run(missing, func(t *testing.T) {
			envs := minimalEnvs()
			delete(envs, missing)
			for k := range minimalEnvs() {
				os.Unsetenv(k)
			}
			setEnvs(t, envs)

			_, err := Load()
			if err == nil {
				t.Errorf("Load() не вернул ошибку при отсутствии %s", missing)
			}
		})
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	envs := minimalEnvs()
	envs["LG_JWT_SECRET"] = "too-short"
	setEnvs(t, envs)

	_, err := Load()
	if err == nil {
		t.Error("Load() не вернул ошибку при коротком LG_JWT_SECRET")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"ноль", "0"},
		{"выше диапазона", "70000"},
		{"не число", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envs := minimalEnvs()
			envs["LG_PORT"] = tt.value
			setEnvs(t, envs)

			_, err := Load()
			if err == nil {
				t.Errorf("Load() не вернул ошибку при LG_PORT=%q", tt.value)
			}
		})
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	envs := minimalEnvs()
	envs["LG_LOG_LEVEL"] = "verbose"
	setEnvs(t, envs)

	_, err := Load()
	if err == nil {
		t.Error("Load() не вернул ошибку при LG_LOG_LEVEL=verbose")
	}
}

func TestDatabaseDSN(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	dsn := cfg.DatabaseDSN()
	expected := "host=localhost port=5432 dbname=lavandaria user=lavandaria password=secret sslmode=disable"
	if dsn != expected {
		t.Errorf("DatabaseDSN() = %q, ожидается %q", dsn, expected)
	}
}
