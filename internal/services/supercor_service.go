package services

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

var (
	tabRun = regexp.MustCompile(`\t+`)
	// código de 8 dígitos, descripción SUPERCOR y fecha d-mmm-aa
	supercorLoose = regexp.MustCompile(`(?i)\d{8}\s+(SUPERCOR.*?)\s+\d{1,2}-[a-z]{3}-\d{2}`)
)

// CollectSupercor extrae de MP.txt todas las descripciones SUPERCOR.
// Usa la columna 2 separada por tabs y, si la línea no tiene ese formato,
// cae a una búsqueda por patrón entre el código y la fecha.
func CollectSupercor(r io.Reader) ([]string, error) {
	set := make(map[string]bool)
	err := eachLatin1Line(r, func(line string) {
		if !strings.Contains(line, "SUPERCOR") {
			return
		}
		parts := tabRun.Split(line, -1)
		if len(parts) > 2 && strings.Contains(parts[2], "SUPERCOR") {
			if desc := strings.TrimSpace(parts[2]); desc != "" {
				set[desc] = true
			}
			return
		}
		if m := supercorLoose.FindStringSubmatch(line); m != nil {
			if desc := strings.TrimSpace(m[1]); desc != "" {
				set[desc] = true
			}
		}
	})
	if err != nil {
		return nil, err
	}

	items := make([]string, 0, len(set))
	for d := range set {
		items = append(items, d)
	}
	sort.Strings(items)
	return items, nil
}

// MergeSupercor une la lista actual con la nueva, quita los GENERICO y ordena
func MergeSupercor(current, found []string) []string {
	set := make(map[string]bool)
	for _, list := range [][]string{current, found} {
		for _, d := range list {
			if !strings.Contains(strings.ToUpper(d), "GENERICO") {
				set[d] = true
			}
		}
	}
	merged := make([]string, 0, len(set))
	for d := range set {
		merged = append(merged, d)
	}
	sort.Strings(merged)
	return merged
}

// UpdateSupercorSeed agrega al JSON semilla los SUPERCOR encontrados en MP.txt
// y devuelve cuántos encontró y el total resultante
func UpdateSupercorSeed(mpPath, seedPath string) (found, total int, err error) {
	f, err := os.Open(mpPath)
	if err != nil {
		return 0, 0, fmt.Errorf("error abriendo %s: %w", mpPath, err)
	}
	defer f.Close()

	items, err := CollectSupercor(f)
	if err != nil {
		return 0, 0, fmt.Errorf("error leyendo %s: %w", mpPath, err)
	}

	seed, err := ReadSeedFile(seedPath)
	if err != nil {
		return 0, 0, err
	}
	seed["supercor"] = MergeSupercor(seed["supercor"], items)
	if err := WriteSeedFile(seedPath, seed); err != nil {
		return 0, 0, err
	}
	return len(items), len(seed["supercor"]), nil
}
