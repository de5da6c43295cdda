package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeiconcr1/integrador/internal/models"
)

const (
	ptMinCodeLen = 10
	ptCodePrefix = "22"
	mpMinCodeLen = 8
	mpMinColumns = 24
	ingestBatch  = 1000
)

// Prefijos de descripción que clasifican una línea de MP como acabado
var materialPrefixes = []struct {
	prefix, tipo string
}{
	{"FORMICA", models.TipoFormica},
	{"CANTO", models.TipoCanto},
	{"VIDRIO", models.TipoVidrio},
	{"TELA", models.TipoTela},
	{"DURALAM", models.TipoSupercor},
	{"MADECANTO", models.TipoMadecanto},
	{"PINTURA", models.TipoPintura},
}

// MPResult es lo que se extrae de MP.txt
type MPResult struct {
	Articulos []models.Articulo
	Catalogos []models.Catalogo
}

// IngestService carga los volcados PT.txt y MP.txt
type IngestService struct {
	db      *gorm.DB
	catalog *CatalogService
	log     *zap.Logger
}

// NewIngestService создает новый экземпляр IngestService
func NewIngestService(db *gorm.DB, catalog *CatalogService, log *zap.Logger) *IngestService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IngestService{db: db, catalog: catalog, log: log}
}

// Run procesa PT y MP y reescribe el JSON semilla. Un archivo faltante se
// omite con advertencia; cualquier otro error corta la ejecución.
func (s *IngestService) Run(ptPath, mpPath, seedPath string) error {
	if err := s.IngestPT(ptPath); err != nil {
		return err
	}
	if err := s.IngestMP(mpPath); err != nil {
		return err
	}
	if err := s.catalog.WriteCatalogosJSON(seedPath); err != nil {
		return err
	}
	s.catalog.InvalidateCache()
	s.log.Info("Catálogos sincronizados", zap.String("path", seedPath))
	return nil
}

// IngestPT carga los códigos de producto terminado en articulos_pt
func (s *IngestService) IngestPT(path string) error {
	f, ok, err := s.open(path)
	if !ok || err != nil {
		return err
	}
	defer f.Close()

	rows, err := ParsePT(f)
	if err != nil {
		return fmt.Errorf("error leyendo %s: %w", path, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return upsertByCodigo(tx, rows)
	})
	if err != nil {
		return fmt.Errorf("error cargando PT: %w", err)
	}
	s.log.Info("Productos PT cargados", zap.Int("total", len(rows)))
	return nil
}

// IngestMP carga artículos de materia prima y los acabados que reconoce
func (s *IngestService) IngestMP(path string) error {
	f, ok, err := s.open(path)
	if !ok || err != nil {
		return err
	}
	defer f.Close()

	res, err := ParseMP(f)
	if err != nil {
		return fmt.Errorf("error leyendo %s: %w", path, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := upsertByCodigo(tx, res.Articulos); err != nil {
			return err
		}
		if len(res.Catalogos) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(res.Catalogos, ingestBatch).Error
	})
	if err != nil {
		return fmt.Errorf("error cargando MP: %w", err)
	}
	s.log.Info("Artículos MP cargados",
		zap.Int("articulos", len(res.Articulos)),
		zap.Int("acabados", len(res.Catalogos)))
	return nil
}

func (s *IngestService) open(path string) (*os.File, bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("Archivo no encontrado, se omite", zap.String("path", path))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error abriendo %s: %w", path, err)
	}
	return f, true, nil
}

func upsertByCodigo[T models.Articulo | models.ArticuloPT](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "codigo"}},
		DoUpdates: clause.AssignmentColumns([]string{"descripcion"}),
	}).CreateInBatches(rows, ingestBatch).Error
}

// ParsePT lee PT.txt (latin1, separado por "|"): código en la columna 1 y
// descripción en la 2. Solo se guardan códigos de 10+ caracteres que empiezan con 22.
func ParsePT(r io.Reader) ([]models.ArticuloPT, error) {
	index := make(map[string]int)
	var rows []models.ArticuloPT

	err := eachLatin1Line(r, func(line string) {
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			return
		}
		code := strings.TrimSpace(parts[1])
		desc := strings.TrimSpace(parts[2])
		if len(code) < ptMinCodeLen || !strings.HasPrefix(code, ptCodePrefix) {
			return
		}
		// el último gana, igual que un INSERT OR REPLACE
		if i, ok := index[code]; ok {
			rows[i].Descripcion = desc
			return
		}
		index[code] = len(rows)
		rows = append(rows, models.ArticuloPT{Codigo: code, Descripcion: desc})
	})
	return rows, err
}

// ParseMP lee MP.txt (latin1, separado por tabs, 24+ columnas)
func ParseMP(r io.Reader) (*MPResult, error) {
	res := &MPResult{}
	index := make(map[string]int)
	seen := make(map[[2]string]bool)

	err := eachLatin1Line(r, func(line string) {
		parts := strings.Split(line, "\t")
		if len(parts) < mpMinColumns {
			return
		}
		code := strings.TrimSpace(parts[1])
		desc := strings.TrimSpace(parts[2])
		descUpper := strings.ToUpper(desc)
		if strings.Contains(descUpper, "GENERICO") || strings.Contains(descUpper, "CODIGO INACTIVO") {
			return
		}

		if len(code) >= mpMinCodeLen {
			if i, ok := index[code]; ok {
				res.Articulos[i].Descripcion = desc
			} else {
				index[code] = len(res.Articulos)
				res.Articulos = append(res.Articulos, models.Articulo{Codigo: code, Descripcion: desc})
			}
		}

		if tipo := TipoPorDescripcion(descUpper); tipo != "" {
			key := [2]string{tipo, desc}
			if !seen[key] {
				seen[key] = true
				res.Catalogos = append(res.Catalogos, models.Catalogo{Tipo: tipo, Descripcion: desc})
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// TipoPorDescripcion clasifica una descripción ya en mayúsculas por su prefijo
func TipoPorDescripcion(descUpper string) string {
	for _, m := range materialPrefixes {
		if strings.HasPrefix(descUpper, m.prefix) {
			return m.tipo
		}
	}
	return ""
}

// eachLatin1Line decodifica ISO-8859-1 y entrega cada línea sin \r final
func eachLatin1Line(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		fn(strings.TrimRight(scanner.Text(), "\r"))
	}
	return scanner.Err()
}
