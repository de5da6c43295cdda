package models

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate crea o actualiza todas las tablas
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Pedido{},
		&PuestoTrabajo{},
		&PuestoItem{},
		&Catalogo{},
		&Articulo{},
		&ArticuloPT{},
	); err != nil {
		return fmt.Errorf("error de migración: %w", err)
	}
	return nil
}
