package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DBDriver           string // sqlite | postgres
	DatabaseURL        string
	RedisURL           string   // Vacío = caché de búsqueda desactivada
	RedisSentinelAddrs []string // Direcciones Sentinel (separadas por coma)
	RedisMasterName    string
	RedisPassword      string
	CacheTTL           time.Duration
	ServerPort         string
	Environment        string
	LogLevel           string
	LogFormat          string // console | json
	CatalogosJSON      string // Ruta del archivo semilla de catálogos
	AssetsDir          string // Directorio donde se busca el logo para la exportación
	ShutdownTimeout    time.Duration
}

func Load() *Config {
	driver := strings.ToLower(getEnv("DB_DRIVER", "sqlite"))

	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" && driver == "postgres" {
		// Armamos la URL a partir de las variables PG* si no viene completa
		pgHost := getEnv("PGHOST", "localhost")
		pgPort := getEnv("PGPORT", "5432")
		pgUser := getEnv("PGUSER", "postgres")
		pgPassword := getEnv("PGPASSWORD", "")
		pgDatabase := getEnv("PGDATABASE", "integrador")

		if pgPassword != "" {
			databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
				pgUser, pgPassword, pgHost, pgPort, pgDatabase)
		} else {
			databaseURL = fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=disable",
				pgUser, pgHost, pgPort, pgDatabase)
		}
	}
	if databaseURL == "" {
		databaseURL = "integrador.db"
	}

	sentinelAddrsStr := getEnv("REDIS_SENTINEL_ADDRS", "")
	var sentinelAddrs []string
	if sentinelAddrsStr != "" {
		sentinelAddrs = strings.Split(sentinelAddrsStr, ",")
		for i := range sentinelAddrs {
			sentinelAddrs[i] = strings.TrimSpace(sentinelAddrs[i])
		}
	}

	return &Config{
		DBDriver:           driver,
		DatabaseURL:        databaseURL,
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisSentinelAddrs: sentinelAddrs,
		RedisMasterName:    getEnv("REDIS_MASTER_NAME", "mymaster"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		CacheTTL:           time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		ServerPort:         getEnv("PORT", "3000"),
		Environment:        getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		CatalogosJSON:      getEnv("CATALOGOS_JSON", "catalogos.json"),
		AssetsDir:          getEnv("ASSETS_DIR", "."),
		ShutdownTimeout:    time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// CacheEnabled indica si hay Redis configurado
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != "" || len(c.RedisSentinelAddrs) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
