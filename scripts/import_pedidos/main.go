// import_pedidos borra todos los pedidos y los recrea desde planillas
// INTEGRADOR antiguas (.xlsx / .xlsm) de un directorio.
package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yeiconcr1/integrador/internal/config"
	"github.com/yeiconcr1/integrador/internal/database"
	"github.com/yeiconcr1/integrador/internal/logger"
	"github.com/yeiconcr1/integrador/internal/models"
	"github.com/yeiconcr1/integrador/internal/services"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dir := flag.String("dir", ".", "directorio con las planillas INTEGRADOR")
	flag.Parse()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("No se pudo conectar a la base de datos", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Error("Error en la migración", zap.Error(err))
		os.Exit(1)
	}

	importer := services.NewLegacyImportService(db, services.NewPedidoService(db, log), log)
	result, err := importer.ImportDir(*dir)
	if err != nil {
		log.Error("Importación revertida", zap.String("dir", *dir), zap.Error(err))
		os.Exit(1)
	}

	for _, p := range result {
		log.Info("Pedido importado",
			zap.String("archivo", p.Source),
			zap.Int64("id", p.ID),
			zap.String("numero", p.Numero),
			zap.String("cliente", p.Cliente),
			zap.String("proyecto", p.Proyecto),
			zap.Int("items", p.Items))
	}
	log.Info("Importación completa", zap.Int("pedidos", len(result)))
}
