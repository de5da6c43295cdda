// update_supercor agrega al JSON de catálogos las descripciones SUPERCOR de MP.txt
package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yeiconcr1/integrador/internal/config"
	"github.com/yeiconcr1/integrador/internal/logger"
	"github.com/yeiconcr1/integrador/internal/services"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	mpPath := flag.String("mp", "MP.txt", "volcado de materia prima")
	seedPath := flag.String("seed", cfg.CatalogosJSON, "archivo JSON de catálogos")
	flag.Parse()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	found, total, err := services.UpdateSupercorSeed(*mpPath, *seedPath)
	if err != nil {
		log.Error("No se pudo actualizar supercor", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Supercor actualizado",
		zap.Int("encontrados", found),
		zap.Int("total", total),
		zap.String("seed", *seedPath))
}
