package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yeiconcr1/integrador/internal/api"
	"github.com/yeiconcr1/integrador/internal/config"
	"github.com/yeiconcr1/integrador/internal/database"
	"github.com/yeiconcr1/integrador/internal/logger"
	"github.com/yeiconcr1/integrador/internal/models"
	"github.com/yeiconcr1/integrador/internal/services"
	"github.com/yeiconcr1/integrador/internal/utils"
	"github.com/yeiconcr1/integrador/web"
)

func main() {
	// .env es opcional; en producción las variables vienen del entorno
	envErr := godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if envErr != nil {
		log.Info("Archivo .env no encontrado, se usan variables del sistema")
	}
	log.Info("Configuración cargada",
		zap.String("env", cfg.Environment),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("database_url", safeURL(cfg.DatabaseURL)))

	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("No se pudo conectar a la base de datos", zap.Error(err))
	}
	defer database.Close(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal("Error en la migración", zap.Error(err))
	}

	catalog := services.NewCatalogService(db, log)
	if cfg.CacheEnabled() {
		rdb, err := database.ConnectRedis(cfg.RedisURL, cfg.RedisSentinelAddrs, cfg.RedisMasterName, cfg.RedisPassword, log)
		if err != nil {
			// sin Redis la búsqueda sigue yendo a la base
			log.Warn("Redis no disponible, caché de búsqueda desactivada", zap.Error(err))
		} else {
			defer database.CloseRedis(rdb)
			catalog.WithCache(utils.NewRedisClient(rdb), cfg.CacheTTL)
		}
	}

	if n, err := catalog.ReseedCatalogos(cfg.CatalogosJSON); err != nil {
		log.Error("No se pudieron recargar los catálogos", zap.String("path", cfg.CatalogosJSON), zap.Error(err))
	} else {
		log.Info("Catálogos recargados", zap.Int64("total", n))
	}

	pedidos := services.NewPedidoService(db, log)
	export := services.NewExportService(pedidos, cfg.AssetsDir, log)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRouter(api.RouterDeps{
		Catalog: catalog,
		Pedidos: pedidos,
		Export:  export,
		Static:  web.Static(),
		Log:     log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info("Servidor escuchando", zap.String("addr", "http://localhost:"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("No se pudo iniciar el servidor", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Apagando servidor...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Apagado forzado", zap.Error(err))
	}
	log.Info("Servidor detenido")
}

// safeURL oculta las credenciales de una URL de conexión
func safeURL(u string) string {
	at := strings.Index(u, "@")
	scheme := strings.Index(u, "://")
	if at > 0 && scheme > 0 && scheme < at {
		return u[:scheme+3] + "***@" + u[at+1:]
	}
	return u
}
