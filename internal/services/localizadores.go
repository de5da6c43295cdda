package services

import (
	"fmt"
	"io"
	"strings"
)

const localizadorColumn = 23

var localizadorPrefixes = []string{"PI", "FOR", "CTA", "TEL", "VID", "AGL"}

// LocalizadorEntry es una muestra del reporte
type LocalizadorEntry struct {
	Loc, Codigo, Descripcion string
}

// LocalizadorReport agrupa las filas de MP.txt por prefijo de localizador
type LocalizadorReport struct {
	Header23, Header24 string
	Groups             map[string][]LocalizadorEntry
}

// CheckLocalizadores clasifica la columna 23 de MP.txt por prefijo
// (PI., FOR., CTA., TEL., VID., AGL. u OTHER)
func CheckLocalizadores(r io.Reader) (*LocalizadorReport, error) {
	rep := &LocalizadorReport{Groups: make(map[string][]LocalizadorEntry)}
	first := true

	err := eachLatin1Line(r, func(line string) {
		parts := strings.Split(line, "\t")
		if first {
			first = false
			rep.Header23 = column(parts, 23)
			rep.Header24 = column(parts, 24)
			return
		}
		if len(parts) <= localizadorColumn {
			return
		}
		loc := strings.TrimSpace(parts[localizadorColumn])
		if loc == "" {
			return
		}

		group := "OTHER"
		for _, p := range localizadorPrefixes {
			if strings.HasPrefix(loc, p+".") {
				group = p
				break
			}
		}
		rep.Groups[group] = append(rep.Groups[group], LocalizadorEntry{
			Loc:         truncate(loc, 30),
			Codigo:      parts[1],
			Descripcion: truncate(parts[2], 50),
		})
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// Print escribe el reporte con hasta dos ejemplos por grupo
func (rep *LocalizadorReport) Print(w io.Writer) {
	fmt.Fprintf(w, "Columna 23: %s\n", rep.Header23)
	fmt.Fprintf(w, "Columna 24: %s\n", rep.Header24)
	for _, group := range append(append([]string{}, localizadorPrefixes...), "OTHER") {
		entries := rep.Groups[group]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s. entradas: %d\n", group, len(entries))
		for i, e := range entries {
			if i == 2 {
				break
			}
			fmt.Fprintf(w, "  Loc: [%s]\n  Código: %s\n  Desc: %s\n", e.Loc, e.Codigo, e.Descripcion)
		}
	}
}

func column(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
