package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=reporteventas port=5432 sslmode=disable"

type Config struct {
	HTTPPort         string
	DatabaseDSN      string
	JWTSecret        string
	CORSOrigins      string
	RedisAddress     string        // vacío: sin candado distribuido de cierre
	RedisPassword    string
	ClosingLockTTL   time.Duration // vigencia del candado de cierre/reapertura
	ExternalTokenTTL time.Duration // vigencia del token de socios externos
	LogLevel         string
}

func Load() *Config {
	// .env es opcional
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:      getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		RedisAddress:     getEnv("REDIS_ADDRESS", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		ClosingLockTTL:   getDuration("CLOSING_LOCK_TTL", 2*time.Minute),
		ExternalTokenTTL: getDuration("EXTERNAL_TOKEN_TTL", 15*time.Minute),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	SetupLogger(cfg.LogLevel)
	log := Logger()

	// Controles de seguridad para producción
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET no está definido; es obligatorio")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("JWT_SECRET debe tener al menos 32 caracteres")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Warn("DATABASE_DSN usa el valor por defecto; defina la conexión de Postgres para producción")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Warn("CORS_ALLOWED_ORIGINS usa el valor por defecto; defina el dominio para producción")
	}
	if cfg.RedisAddress == "" {
		log.Info("REDIS_ADDRESS vacío: cierre y reapertura solo usan el bloqueo de fila en Postgres")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getDuration acepta "90s", "15m" o un número de segundos.
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	Logger().Warnf("%s inválido (%q), se usa %s", key, v, def)
	return def
}
