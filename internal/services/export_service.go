package services

import (
	"bytes"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yeiconcr1/integrador/internal/models"
)

const (
	exportSheet   = "INTEGRADOR"
	exportCreator = "Integrador App"
	exportFooter  = "&L&8&K777777Generado: &D &T&R&8&K777777Página &P de &N"
	lastCol       = "R"
	firstItemRow  = 11
)

var exportHeaders = []string{
	"CÓD.", "DESCRIPCIÓN",
	"H", "L", "PROF", "NOTAS",
	"UNI.", "TIP.", "TOTAL",
	"PINTURA", "ACAB. ADIC.", "FÓRMICA",
	"SUPERCOR", "CANTO", "MADECANTO",
	"VIDRIO", "TELA / FIBER", "RENDER",
}

var exportColWidths = []float64{14, 42, 8, 8, 8, 16, 8, 8, 9, 36, 20, 28, 24, 28, 24, 18, 34, 12}

var logoCandidates = []string{
	"public/logo.png", "public/logo.jpg", "public/logo.jpeg",
	"logo.png", "logo.jpg", "logo.jpeg",
}

// ExportService genera la planilla INTEGRADOR de un pedido
type ExportService struct {
	pedidos   *PedidoService
	assetsDir string
	log       *zap.Logger
}

// NewExportService создает новый экземпляр ExportService
func NewExportService(pedidos *PedidoService, assetsDir string, log *zap.Logger) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportService{pedidos: pedidos, assetsDir: assetsDir, log: log}
}

// Export arma la planilla completa en memoria. Devuelve ErrPedidoNotFound
// si el pedido no existe.
func (s *ExportService) Export(id int64) (string, *bytes.Buffer, error) {
	pedido, err := s.pedidos.GetPedido(id)
	if err != nil {
		return "", nil, err
	}

	f, err := s.BuildWorkbook(pedido)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("error serializando planilla: %w", err)
	}
	return ExportFilename(pedido), buf, nil
}

// BuildWorkbook dibuja cabecera, tarjetas de datos y un bloque por puesto
func (s *ExportService) BuildWorkbook(p *models.Pedido) (*excelize.File, error) {
	f := excelize.NewFile()
	w := &sheetWriter{f: f, sheet: exportSheet, styles: newStyleBook(f)}

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("error creando hoja: %w", err)
	}

	steps := []func() error{
		func() error { return w.setup() },
		func() error { return w.headerBand(p, s.findLogo()) },
		func() error { return w.metaCards(p) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			f.Close()
			return nil, fmt.Errorf("error generando planilla: %w", err)
		}
	}

	row := firstItemRow
	for pIdx := range p.Puestos {
		next, err := w.puesto(&p.Puestos[pIdx], pIdx, row)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("error generando puesto %s: %w", p.Puestos[pIdx].Nombre, err)
		}
		row = next
	}

	if w.logoErr != nil {
		s.log.Warn("No se pudo insertar el logo", zap.Error(w.logoErr))
	}
	return f, nil
}

func (s *ExportService) findLogo() string {
	for _, c := range logoCandidates {
		path := filepath.Join(s.assetsDir, c)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

type sheetWriter struct {
	f       *excelize.File
	sheet   string
	styles  *styleBook
	logoErr error
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (w *sheetWriter) setup() error {
	f, sheet := w.f, w.sheet

	if err := f.SetDocProps(&excelize.DocProperties{Creator: exportCreator}); err != nil {
		return err
	}
	showGrid := false
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{ShowGridLines: &showGrid}); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		TopLeftCell: "C1",
		ActivePane:  "topRight",
	}); err != nil {
		return err
	}

	size, orientation := 9, "landscape"
	fitWidth, fitHeight := 1, 0
	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{
		Size:        &size,
		Orientation: &orientation,
		FitToWidth:  &fitWidth,
		FitToHeight: &fitHeight,
	}); err != nil {
		return err
	}
	fitToPage := true
	if err := f.SetSheetProps(sheet, &excelize.SheetPropsOptions{FitToPage: &fitToPage}); err != nil {
		return err
	}
	left, right, top, bottom, header, footer := 0.3, 0.3, 0.4, 0.5, 0.2, 0.2
	if err := f.SetPageMargins(sheet, &excelize.PageLayoutMarginsOptions{
		Left: &left, Right: &right, Top: &top, Bottom: &bottom, Header: &header, Footer: &footer,
	}); err != nil {
		return err
	}
	if err := f.SetHeaderFooter(sheet, &excelize.HeaderFooterOptions{OddFooter: exportFooter}); err != nil {
		return err
	}

	for i, width := range exportColWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) headerBand(p *models.Pedido, logoPath string) error {
	f, sheet := w.f, w.sheet

	band := cellStyle{fill: colorDarkNavy}
	if err := w.styles.apply(sheet, "A1", lastCol+"4", band); err != nil {
		return err
	}

	for _, m := range [][2]string{{"A1", "C4"}, {"D1", lastCol + "2"}, {"D3", lastCol + "4"}} {
		if err := f.MergeCell(sheet, m[0], m[1]); err != nil {
			return err
		}
	}

	if logoPath != "" {
		w.logoErr = f.AddPicture(sheet, "A1", logoPath, &excelize.GraphicOptions{
			AutoFit:     true,
			OffsetX:     6,
			OffsetY:     6,
			Positioning: "oneCell",
		})
	}
	if logoPath == "" || w.logoErr != nil {
		if err := f.SetCellRichText(sheet, "A1", []excelize.RichTextRun{
			{Text: "OMEGA", Font: font(colorWhite, 16, true)},
			{Text: "\n", Font: font(colorWhite, 4, false)},
			{Text: "ARQUINT", Font: font(colorSlate200, 10, false)},
		}); err != nil {
			return err
		}
		if err := w.styles.apply(sheet, "A1", "C4", cellStyle{fill: colorDarkNavy, hAlign: "center", vAlign: "center", wrap: true}); err != nil {
			return err
		}
	}

	if err := f.SetCellValue(sheet, "D1", "INTEGRADOR DE PEDIDO"); err != nil {
		return err
	}
	title := cellStyle{fill: colorDarkNavy, fontColor: colorWhite, fontSize: 18, bold: true, hAlign: "left", vAlign: "bottom"}
	if err := w.styles.apply(sheet, "D1", lastCol+"2", title); err != nil {
		return err
	}

	proyecto := firstNonEmpty(p.Proyecto, p.Cliente)
	if proyecto == "" {
		proyecto = "-"
	}
	if err := f.SetCellRichText(sheet, "D3", []excelize.RichTextRun{
		{Text: "PROYECTO  ", Font: font(colorSlate500, 9, true)},
		{Text: proyecto, Font: font(colorWhite, 11, false)},
		{Text: "    ·    ", Font: font(colorSlate500, 11, false)},
		{Text: "PEDIDO  ", Font: font(colorSlate500, 9, true)},
		{Text: numeroOrID(p), Font: font(colorWhite, 11, false)},
	}); err != nil {
		return err
	}
	if err := w.styles.apply(sheet, "D3", lastCol+"4", cellStyle{fill: colorDarkNavy, hAlign: "left", vAlign: "top"}); err != nil {
		return err
	}

	for row, h := range map[int]float64{1: 20, 2: 20, 3: 16, 4: 16, 5: 4} {
		if err := f.SetRowHeight(sheet, row, h); err != nil {
			return err
		}
	}
	return w.styles.apply(sheet, "A5", lastCol+"5", cellStyle{fill: colorAccent})
}

func (w *sheetWriter) metaCards(p *models.Pedido) error {
	proyecto := firstNonEmpty(p.Proyecto, p.Cliente)
	if proyecto == "" {
		proyecto = "-"
	}

	cards := []struct {
		from, to, label, value string
	}{
		{"A6", "D7", "# N° PEDIDO", deref(p.NumeroPedido)},
		{"E6", "H7", "FECHA", deref(p.Fecha)},
		{"I6", "N7", "CLIENTE", deref(p.Cliente)},
		{"O6", "R7", "ASESOR", deref(p.Asesor)},
		{"A8", "I9", "PROYECTO", proyecto},
		{"J8", "R9", "DISEÑADOR", deref(p.Disenador)},
	}

	style := cellStyle{fill: colorSlate50, hAlign: "left", vAlign: "center", wrap: true, border: borderSoft}
	for _, c := range cards {
		if err := w.f.MergeCell(w.sheet, c.from, c.to); err != nil {
			return err
		}
		value := c.value
		if value == "" {
			value = "—"
		}
		if err := w.f.SetCellRichText(w.sheet, c.from, []excelize.RichTextRun{
			{Text: c.label + "\n", Font: font(colorSlate500, 9, true)},
			{Text: value, Font: font(colorNavy, 10, false)},
		}); err != nil {
			return err
		}
		if err := w.styles.apply(w.sheet, c.from, c.to, style); err != nil {
			return err
		}
	}

	for row, h := range map[int]float64{6: 16, 7: 20, 8: 16, 9: 20} {
		if err := w.f.SetRowHeight(w.sheet, row, h); err != nil {
			return err
		}
	}
	return nil
}

// puesto dibuja banner, encabezados, filas y subtotal; devuelve la próxima fila libre
func (w *sheetWriter) puesto(puesto *models.PuestoTrabajo, pIdx, row int) (int, error) {
	f, sheet := w.f, w.sheet
	n := len(puesto.Items)

	// Banner
	if err := f.MergeCell(sheet, cell(1, row), cell(18, row)); err != nil {
		return 0, err
	}
	if err := f.SetCellRichText(sheet, cell(1, row), []excelize.RichTextRun{
		{Text: "  " + puesto.Nombre, Font: font(colorWhite, 11, true)},
		{Text: "     " + articulosLabel(n), Font: font(colorSlate200, 9, false)},
	}); err != nil {
		return 0, err
	}
	if err := w.styles.apply(sheet, cell(1, row), cell(18, row), cellStyle{fill: colorNavy, vAlign: "center"}); err != nil {
		return 0, err
	}
	if err := f.SetRowHeight(sheet, row, 30); err != nil {
		return 0, err
	}
	row++

	// Encabezados
	headerRow := row
	for i, h := range exportHeaders {
		if err := f.SetCellValue(sheet, cell(i+1, row), h); err != nil {
			return 0, err
		}
	}
	header := cellStyle{fill: colorAccent, fontColor: colorWhite, fontSize: 9, bold: true, hAlign: "center", vAlign: "center", wrap: true, border: borderHeader}
	if err := w.styles.apply(sheet, cell(1, row), cell(18, row), header); err != nil {
		return 0, err
	}
	if err := f.SetRowHeight(sheet, row, 28); err != nil {
		return 0, err
	}
	row++

	// Filas
	var unitarias, tipologias, totales []*float64
	for idx := range puesto.Items {
		item := &puesto.Items[idx]
		unitarias = append(unitarias, item.CantidadUnitaria)
		tipologias = append(tipologias, item.CantidadTipologia)
		totales = append(totales, item.CantidadTotal)

		if err := w.itemRow(item, idx%2 == 1, row); err != nil {
			return 0, err
		}
		row++
	}

	// Subtotal
	if n > 0 {
		if err := w.styles.apply(sheet, cell(1, row), cell(18, row), cellStyle{fill: colorSlate100, border: borderSubtotal}); err != nil {
			return 0, err
		}
		if err := f.MergeCell(sheet, cell(1, row), cell(6, row)); err != nil {
			return 0, err
		}
		if err := f.SetCellRichText(sheet, cell(1, row), []excelize.RichTextRun{
			{Text: "  SUBTOTAL  ", Font: font(colorSlate700, 10, true)},
			{Text: articulosLabel(n), Font: font(colorSlate500, 9, true)},
		}); err != nil {
			return 0, err
		}
		if err := w.styles.apply(sheet, cell(1, row), cell(6, row), cellStyle{fill: colorSlate100, hAlign: "left", vAlign: "center", border: borderSubtotal}); err != nil {
			return 0, err
		}

		sumStyle := cellStyle{fill: colorSlate100, fontColor: colorAccent, fontSize: 10, bold: true, hAlign: "center", vAlign: "center", numFmt: numFmtThousand, border: borderSubtotal}
		for i, values := range [][]*float64{unitarias, tipologias, totales} {
			col := 7 + i
			if sum := SumarCantidades(values...); !sum.IsZero() {
				v, _ := sum.Float64()
				if err := f.SetCellFloat(sheet, cell(col, row), v, -1, 64); err != nil {
					return 0, err
				}
			}
			if err := w.styles.apply(sheet, cell(col, row), cell(col, row), sumStyle); err != nil {
				return 0, err
			}
		}
		if err := f.SetRowHeight(sheet, row, 24); err != nil {
			return 0, err
		}
		row++
	}

	if pIdx == 0 && n > 0 {
		if err := f.AutoFilter(sheet, cell(1, headerRow)+":"+cell(18, headerRow), nil); err != nil {
			return 0, err
		}
	}

	// Separador
	if err := f.SetRowHeight(sheet, row, 10); err != nil {
		return 0, err
	}
	return row + 1, nil
}

func (w *sheetWriter) itemRow(item *models.PuestoItem, odd bool, row int) error {
	values := []interface{}{
		item.Codigo, item.Descripcion,
		item.NotaH, item.NotaL, item.NotaProf, item.NotaAdicional,
		item.CantidadUnitaria, item.CantidadTipologia, item.CantidadTotal,
		item.Pintura, item.AcabadosAdicional, item.Formica,
		item.Supercor, item.Canto, item.Madecanto,
		item.Vidrio, item.Tela, item.Render,
	}

	for i, v := range values {
		ref := cell(i+1, row)
		if err := w.setItemValue(ref, i, v); err != nil {
			return err
		}
		if err := w.styles.apply(w.sheet, ref, ref, itemStyle(i, odd, item.CantidadTotal != nil)); err != nil {
			return err
		}
	}
	return w.f.SetRowHeight(w.sheet, row, 22)
}

func (w *sheetWriter) setItemValue(ref string, col int, v interface{}) error {
	switch val := v.(type) {
	case *float64:
		if val == nil {
			return nil
		}
		return w.f.SetCellFloat(w.sheet, ref, *val, -1, 64)
	case *string:
		if val == nil || *val == "" {
			return nil
		}
		if isNumericColumn(col) {
			if num, ok := exportNumber(*val); ok {
				return w.f.SetCellFloat(w.sheet, ref, num, -1, 64)
			}
		}
		return w.f.SetCellStr(w.sheet, ref, *val)
	}
	return nil
}

// Código, H, L, PROF y cantidades se escriben como número cuando se puede
func isNumericColumn(col int) bool {
	return col == 0 || (col >= 2 && col <= 4) || (col >= 6 && col <= 8)
}

// exportNumber deja como texto "nan", "inf" y similares: Excel no acepta
// esos valores en una celda numérica
func exportNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func articulosLabel(n int) string {
	if n == 1 {
		return "1 artículo"
	}
	return fmt.Sprintf("%d artículos", n)
}

// ExportFilename arma INTEGRADOR_{num}_{proyecto}_{fecha}.xlsx
func ExportFilename(p *models.Pedido) string {
	num := keepRunes(numeroOrID(p), func(r rune) bool { return isASCIIAlnum(r) })

	proj := firstNonEmpty(p.Proyecto, p.Cliente)
	if proj == "" {
		proj = "PEDIDO"
	}
	proj = keepRunes(proj, func(r rune) bool { return isASCIIAlnum(r) || unicode.IsSpace(r) })
	proj = strings.Join(strings.Fields(proj), "_")

	fecha := deref(p.Fecha)
	if fecha == "" {
		fecha = "SIN_FECHA"
	}
	fecha = keepRunes(fecha, func(r rune) bool { return !strings.ContainsRune("\"\\/\r\n", r) })

	return fmt.Sprintf("INTEGRADOR_%s_%s_%s.xlsx", num, proj, fecha)
}

func numeroOrID(p *models.Pedido) string {
	if n := deref(p.NumeroPedido); n != "" {
		return n
	}
	return strconv.FormatInt(p.ID, 10)
}

func keepRunes(s string, keep func(rune) bool) string {
	var b strings.Builder
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
