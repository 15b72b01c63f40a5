package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/reparto-api/internal/application/dto"
)

// row cliente leído de una línea del CSV.
type row struct {
	line int
	in   dto.CreateCustomerRequest
}

// columnas esperadas; la cabecera puede venir en cualquier orden.
var columns = []string{"nombre", "direccion", "localidad", "telefono", "bidones_20l", "bidones_12l", "sodas", "dispensers"}

// readRows decodifica un CSV exportado de la planilla vieja (Latin-1, separador configurable).
func readRows(r io.Reader, sep rune, latin1 bool) ([]row, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[headerKey(h)] = i
	}
	if _, ok := idx["nombre"]; !ok {
		return nil, fmt.Errorf("la cabecera no tiene la columna nombre (esperadas: %s)", strings.Join(columns, ", "))
	}

	var out []row
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if get("nombre") == "" {
			continue
		}
		var nums [4]int
		for i, col := range columns[4:] {
			n, err := count(get(col))
			if err != nil {
				return nil, fmt.Errorf("línea %d, columna %s: %w", line, col, err)
			}
			nums[i] = n
		}
		out = append(out, row{line: line, in: dto.CreateCustomerRequest{
			Name:     get("nombre"),
			Address:  get("direccion"),
			Locality: get("localidad"),
			Phone:    get("telefono"),
			Debt: &dto.DebtDTO{
				Bidones20L: nums[0],
				Bidones12L: nums[1],
				Sodas:      nums[2],
			},
			DispensersAssigned: nums[3],
		}})
	}
	return out, nil
}

// headerKey "Dirección " → "direccion", "Bidones 20L" → "bidones_20l".
func headerKey(h string) string {
	h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, h); err == nil {
		h = folded
	}
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case r == ' ', r == '-':
			b.WriteRune('_')
		}
	}
	return b.String()
}

func count(s string) (int, error) {
	if s == "" || s == "-" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q no es un número entero", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%q no puede ser negativo", s)
	}
	return n, nil
}
