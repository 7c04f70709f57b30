package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	RedisAddr   string // vazio = cache desligado
	RedisPass   string
	RedisDB     int
	SeedDemo    bool
	AppEnv      string // development | production
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=excluvia port=5432 sslmode=disable"

func Load() *Config {
	_ = godotenv.Load() // .env é opcional

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPass:   os.Getenv("REDIS_PASS"),
		RedisDB:     redisDB,
		SeedDemo:    os.Getenv("SEED_DEMO") == "true",
		AppEnv:      getEnv("APP_ENV", "development"),
	}

	// Sem segredo não há como validar token nenhum: aborta em vez de
	// cair num segredo padrão fraco.
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET não definido! Obrigatório em qualquer ambiente.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET precisa ter no mínimo 32 caracteres.")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Warn("DATABASE_DSN usando valor padrão; defina a conexão real do Postgres em produção.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Warn("CORS_ALLOWED_ORIGINS usando valor padrão; defina o domínio real em produção.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
