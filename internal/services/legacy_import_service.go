package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yeiconcr1/integrador/internal/models"
)

const legacySheet = "INTEGRADOR"

var (
	reNumero     = regexp.MustCompile(`(?i)INTEGRADOR\s+(\d+)`)
	reFecha      = regexp.MustCompile(`\((\d{2}-\d{2}-\d{4})\)`)
	reDMY        = regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`)
	reExt        = regexp.MustCompile(`(?i)\.xls[xmb]$`)
	reOrdinal    = regexp.MustCompile(`^\d+\.\s*`)
	reNumeroHead = regexp.MustCompile(`(?i)^INTEGRADOR\s+\d+\s*`)
	reFechaTail  = regexp.MustCompile(`\s*\(\d{2}-\d{2}-\d{4}\)\s*$`)
	reCodigo     = regexp.MustCompile(`^\d{8,}$`)
)

// FilenameMeta son los datos que trae el nombre del archivo,
// p. ej. "3. INTEGRADOR 1234 TORRE_ACME (05-02-2024).xlsx"
type FilenameMeta struct {
	NumeroPedido string
	Fecha        string // yyyy-mm-dd
	Proyecto     string
	Cliente      string
}

// ParseFilenameMeta extrae número, fecha y proyecto_cliente del nombre
func ParseFilenameMeta(name string) FilenameMeta {
	var meta FilenameMeta
	if m := reNumero.FindStringSubmatch(name); m != nil {
		meta.NumeroPedido = m[1]
	}
	if m := reFecha.FindStringSubmatch(name); m != nil {
		meta.Fecha = toISODate(m[1])
	}

	middle := reExt.ReplaceAllString(name, "")
	middle = reOrdinal.ReplaceAllString(middle, "")
	middle = reNumeroHead.ReplaceAllString(middle, "")
	middle = reFechaTail.ReplaceAllString(middle, "")

	if strings.Contains(middle, "_") {
		parts := strings.Split(middle, "_")
		meta.Proyecto = strings.TrimSpace(parts[0])
		meta.Cliente = strings.TrimSpace(parts[1])
	}
	return meta
}

func toISODate(dmy string) string {
	m := reDMY.FindStringSubmatch(dmy)
	if m == nil {
		return ""
	}
	return m[3] + "-" + m[2] + "-" + m[1]
}

// ParseIntegradorWorkbook lee una planilla INTEGRADOR antigua y la convierte
// en un pedido con un único puesto
func ParseIntegradorWorkbook(r io.Reader, filename string) (*models.PedidoInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error abriendo %s: %w", filename, err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(legacySheet); idx < 0 {
		return nil, fmt.Errorf("no se encontró hoja %s en %s", legacySheet, filename)
	}
	rows, err := f.GetRows(legacySheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error leyendo hoja %s de %s: %w", legacySheet, filename, err)
	}

	byLabel := func(label string) string {
		for _, row := range rows {
			if strings.EqualFold(strings.TrimSpace(column(row, 0)), label) {
				return strings.TrimSpace(column(row, 1))
			}
		}
		return ""
	}

	headerIdx := -1
	for i, row := range rows {
		if strings.ToUpper(strings.TrimSpace(column(row, 0))) == "CODIGO" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("no se encontró encabezado de ítems en %s", filename)
	}

	var items []models.ItemInput
	for _, row := range rows[headerIdx+1:] {
		cells := make([]string, 18)
		for i := range cells {
			cells[i] = strings.TrimSpace(column(row, i))
		}
		if !reCodigo.MatchString(cells[0]) {
			continue
		}
		items = append(items, models.ItemInput{
			Codigo:            optStr(cells[0]),
			Descripcion:       optStr(cells[1]),
			NotaH:             optStr(cells[2]),
			NotaL:             optStr(cells[3]),
			NotaProf:          optStr(cells[4]),
			NotaAdicional:     optStr(cells[5]),
			CantidadUnitaria:  optNum(cells[6]),
			CantidadTipologia: optNum(cells[7]),
			CantidadTotal:     optNum(cells[8]),
			Pintura:           optStr(cells[9]),
			AcabadosAdicional: optStr(cells[10]),
			Formica:           optStr(cells[11]),
			Supercor:          optStr(cells[12]),
			Canto:             optStr(cells[13]),
			Madecanto:         optStr(cells[14]),
			Vidrio:            optStr(cells[15]),
			Tela:              optStr(cells[16]),
			Render:            optStr(cells[17]),
		})
	}

	meta := ParseFilenameMeta(filename)
	clienteRaw := byLabel("Cliente:")

	cliente := meta.Cliente
	if cliente == "" {
		cliente = clienteRaw
	}
	proyecto := meta.Proyecto
	if strings.Contains(clienteRaw, " - ") {
		parts := strings.Split(clienteRaw, " - ")
		if left := strings.TrimSpace(parts[0]); left != "" {
			cliente = left
		}
		if right := strings.TrimSpace(parts[1]); right != "" {
			proyecto = right
		}
	}

	return &models.PedidoInput{
		NumeroPedido: optStr(meta.NumeroPedido),
		Fecha:        optStr(meta.Fecha),
		Cliente:      optStr(cliente),
		Proyecto:     optStr(proyecto),
		Disenador:    optStr(byLabel("Diseñador:")),
		Asesor:       optStr(byLabel("Asesor Comercial:")),
		Puestos: []models.PuestoInput{
			{Nombre: models.Str("PUESTO 1"), Items: items},
		},
	}, nil
}

func optStr(s string) models.FlexString {
	if s == "" {
		return models.FlexString{}
	}
	return models.Str(s)
}

func optNum(s string) models.FlexNumber {
	if v, ok := models.ParseNumber(s); ok {
		return models.Num(v)
	}
	return models.FlexNumber{}
}

// ImportedPedido resume un archivo importado
type ImportedPedido struct {
	ID       int64
	Numero   string
	Cliente  string
	Proyecto string
	Items    int
	Source   string
}

// LegacyImportService recrea los pedidos desde planillas INTEGRADOR antiguas
type LegacyImportService struct {
	db      *gorm.DB
	pedidos *PedidoService
	log     *zap.Logger
}

// NewLegacyImportService создает новый экземпляр LegacyImportService
func NewLegacyImportService(db *gorm.DB, pedidos *PedidoService, log *zap.Logger) *LegacyImportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LegacyImportService{db: db, pedidos: pedidos, log: log}
}

// ListLegacyFiles devuelve, ordenados, los .xlsx/.xlsm del directorio cuyo
// nombre contiene INTEGRADOR. Los .xlsb se informan porque hay que
// convertirlos antes.
func (s *LegacyImportService) ListLegacyFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error leyendo %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || !strings.Contains(strings.ToUpper(name), "INTEGRADOR") {
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx", ".xlsm":
			files = append(files, name)
		case ".xlsb":
			s.log.Warn("Formato .xlsb no soportado, guardar como .xlsx", zap.String("file", name))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ImportDir borra todos los pedidos y los recrea desde los archivos del
// directorio. Todo ocurre en una transacción: si un archivo falla no cambia nada.
func (s *LegacyImportService) ImportDir(dir string) ([]ImportedPedido, error) {
	files, err := s.ListLegacyFiles(dir)
	if err != nil {
		return nil, err
	}

	inputs := make([]models.PedidoInput, 0, len(files))
	for _, name := range files {
		in, err := parseLegacyFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, *in)
	}

	var ids []int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = s.pedidos.ReplaceAllPedidos(tx, inputs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error importando pedidos: %w", err)
	}

	result := make([]ImportedPedido, len(ids))
	for i, id := range ids {
		in := inputs[i]
		result[i] = ImportedPedido{
			ID:       id,
			Numero:   in.NumeroPedido.Trimmed(),
			Cliente:  in.Cliente.Trimmed(),
			Proyecto: in.Proyecto.Trimmed(),
			Items:    len(in.Puestos[0].Items),
			Source:   files[i],
		}
	}
	s.log.Info("Pedidos recreados", zap.Int("total", len(result)))
	return result, nil
}

func parseLegacyFile(path string) (*models.PedidoInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error abriendo %s: %w", path, err)
	}
	defer f.Close()
	return ParseIntegradorWorkbook(f, filepath.Base(path))
}
