package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/yeiconcr1/integrador/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReseedCatalogos reemplaza la tabla catalogos con el contenido del JSON
// {tipo: [descripcion, ...]} en una sola transacción. Si el archivo no
// existe las filas actuales quedan intactas.
func (s *CatalogService) ReseedCatalogos(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("Archivo de catálogos no encontrado, se conservan los datos", zap.String("path", path))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error leyendo %s: %w", path, err)
	}

	var seed map[string][]string
	if err := json.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("JSON de catálogos inválido: %w", err)
	}

	var rows []models.Catalogo
	for _, tipo := range models.TiposCatalogo {
		for _, desc := range seed[tipo] {
			rows = append(rows, models.Catalogo{Tipo: tipo, Descripcion: desc})
		}
	}
	for tipo := range seed {
		if !models.EsTipoCatalogo(tipo) {
			s.log.Warn("Tipo de catálogo desconocido ignorado", zap.String("tipo", tipo))
		}
	}

	var total int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Catalogo{}).Error; err != nil {
			return fmt.Errorf("error borrando catálogos: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("error insertando catálogos: %w", err)
			}
		}
		return tx.Model(&models.Catalogo{}).Count(&total).Error
	})
	if err != nil {
		return 0, err
	}

	s.InvalidateCache()
	s.log.Info("Catálogos recargados", zap.Int64("total", total))
	return total, nil
}

// WriteCatalogosJSON vuelca la tabla catalogos al archivo semilla,
// ordenado por tipo y descripción
func (s *CatalogService) WriteCatalogosJSON(path string) error {
	var rows []models.Catalogo
	if err := s.db.Order("tipo, descripcion").Find(&rows).Error; err != nil {
		return fmt.Errorf("error leyendo catálogos: %w", err)
	}

	seed := make(map[string][]string)
	for _, r := range rows {
		seed[r.Tipo] = append(seed[r.Tipo], r.Descripcion)
	}
	return WriteSeedFile(path, seed)
}

// ReadSeedFile lee el archivo semilla; si no existe devuelve un mapa vacío
func ReadSeedFile(path string) (map[string][]string, error) {
	seed := make(map[string][]string)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return seed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error leyendo %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("JSON de catálogos inválido: %w", err)
	}
	return seed, nil
}

// WriteSeedFile escribe el JSON con sangría de dos espacios
func WriteSeedFile(path string, seed map[string][]string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(seed); err != nil {
		return fmt.Errorf("error serializando catálogos: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("error escribiendo %s: %w", path, err)
	}
	return nil
}
