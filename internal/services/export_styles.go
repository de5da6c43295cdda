package services

import (
	"github.com/xuri/excelize/v2"
)

// Paleta de la planilla
const (
	colorNavy      = "101828"
	colorDarkNavy  = "0C111D"
	colorAccent    = "2563EB"
	colorAccentLt  = "3B82F6"
	colorSlate700  = "334155"
	colorSlate500  = "64748B"
	colorSlate200  = "E2E8F0"
	colorSlate100  = "F1F5F9"
	colorSlate50   = "F8FAFC"
	colorWhite     = "FFFFFF"
	colorTotalEven = "F0F9FF"
	colorTotalOdd  = "E0F2FE"

	fontFamily = "Calibri"
)

// Formatos numéricos integrados de excelize
const (
	numFmtInteger  = 1 // 0
	numFmtThousand = 3 // #,##0
)

type borderKind int

const (
	borderNone borderKind = iota
	borderSoft
	borderHeader
	borderSubtotal
)

// cellStyle describe un estilo de celda; es comparable para poder
// reutilizar el id que devuelve excelize
type cellStyle struct {
	fill      string
	fontColor string
	fontSize  float64
	bold      bool
	hAlign    string
	vAlign    string
	wrap      bool
	numFmt    int
	border    borderKind
}

type styleBook struct {
	f   *excelize.File
	ids map[cellStyle]int
}

func newStyleBook(f *excelize.File) *styleBook {
	return &styleBook{f: f, ids: make(map[cellStyle]int)}
}

func (b *styleBook) id(s cellStyle) (int, error) {
	if id, ok := b.ids[s]; ok {
		return id, nil
	}

	style := &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: s.hAlign,
			Vertical:   s.vAlign,
			WrapText:   s.wrap,
		},
		NumFmt: s.numFmt,
		Border: borders(s.border),
	}
	if s.fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.fill}}
	}
	if s.fontColor != "" || s.fontSize != 0 || s.bold {
		size := s.fontSize
		if size == 0 {
			size = 10
		}
		color := s.fontColor
		if color == "" {
			color = colorSlate700
		}
		style.Font = &excelize.Font{Family: fontFamily, Size: size, Color: color, Bold: s.bold}
	}

	id, err := b.f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	b.ids[s] = id
	return id, nil
}

// apply aplica el estilo al rango hcell:vcell
func (b *styleBook) apply(sheet, hcell, vcell string, s cellStyle) error {
	id, err := b.id(s)
	if err != nil {
		return err
	}
	return b.f.SetCellStyle(sheet, hcell, vcell, id)
}

func borders(kind borderKind) []excelize.Border {
	side := func(typ, color string, style int) excelize.Border {
		return excelize.Border{Type: typ, Color: color, Style: style}
	}
	switch kind {
	case borderSoft:
		return []excelize.Border{
			side("left", colorSlate200, 1), side("top", colorSlate200, 1),
			side("right", colorSlate200, 1), side("bottom", colorSlate200, 1),
		}
	case borderHeader:
		return []excelize.Border{
			side("left", colorAccentLt, 7), side("top", colorAccentLt, 1),
			side("right", colorAccentLt, 7), side("bottom", colorAccentLt, 1),
		}
	case borderSubtotal:
		return []excelize.Border{
			side("left", colorSlate200, 1), side("top", colorSlate200, 2),
			side("right", colorSlate200, 1), side("bottom", colorSlate200, 1),
		}
	}
	return nil
}

func font(color string, size float64, bold bool) *excelize.Font {
	return &excelize.Font{Family: fontFamily, Color: color, Size: size, Bold: bold}
}

// Estilos por columna de ítem: índice 0..17
func itemStyle(col int, odd bool, hasTotal bool) cellStyle {
	fill := colorWhite
	if odd {
		fill = colorSlate50
	}
	s := cellStyle{fill: fill, fontColor: colorSlate700, fontSize: 10, hAlign: "left", vAlign: "center", border: borderSoft}

	switch {
	case col == 0:
		s.fontColor, s.bold, s.numFmt = colorNavy, true, numFmtInteger
	case col == 1:
		s.wrap = true
	case col >= 2 && col <= 4:
		s.hAlign, s.numFmt = "center", numFmtThousand
	case col == 5:
		s.wrap = true
	case col >= 6 && col <= 8:
		s.fontColor, s.bold, s.hAlign, s.numFmt = colorAccent, true, "center", numFmtThousand
		if col == 8 && hasTotal {
			s.fill = colorTotalEven
			if odd {
				s.fill = colorTotalOdd
			}
		}
	case col >= 9 && col <= 16:
		s.fontColor, s.fontSize, s.wrap = colorSlate500, 9, true
	case col == 17:
		s.fontColor, s.fontSize, s.hAlign = colorSlate500, 9, "center"
	}
	return s
}
