// ingest_data carga PT.txt y MP.txt en la base y regenera catalogos.json.
//
//	go run ./scripts/ingest_data -pt data/PT.txt -mp data/MP.txt
//	go run ./scripts/ingest_data -mp data/MP.txt -check-localizadores
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

	ptPath := flag.String("pt", "PT.txt", "volcado de producto terminado (separado por |)")
	mpPath := flag.String("mp", "MP.txt", "volcado de materia prima (separado por tabs)")
	seedPath := flag.String("seed", cfg.CatalogosJSON, "archivo JSON de catálogos a regenerar")
	checkLoc := flag.Bool("check-localizadores", false, "solo mostrar el reporte de localizadores de MP.txt")
	flag.Parse()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if *checkLoc {
		if err := printLocalizadores(*mpPath); err != nil {
			log.Error("Error revisando localizadores", zap.Error(err))
			os.Exit(1)
		}
		return
	}

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

	catalog := services.NewCatalogService(db, log)
	ingest := services.NewIngestService(db, catalog, log)
	if err := ingest.Run(*ptPath, *mpPath, *seedPath); err != nil {
		log.Error("Ingesta abortada", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Ingesta completa")
}

func printLocalizadores(mpPath string) error {
	f, err := os.Open(mpPath)
	if err != nil {
		return err
	}
	defer f.Close()

	rep, err := services.CheckLocalizadores(f)
	if err != nil {
		return err
	}
	rep.Print(os.Stdout)
	return nil
}
