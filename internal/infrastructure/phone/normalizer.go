// Package phone normaliza teléfonos para el guard de clientes duplicados.
package phone

import (
	"strings"
	"unicode"

	"github.com/ttacon/libphonenumber"
)

// DefaultRegion región usada cuando el número no trae prefijo internacional.
const DefaultRegion = "AR"

// Normalizer implementa billing.PhoneNormalizer con libphonenumber.
type Normalizer struct {
	region string
}

// NewNormalizer construye el normalizador para una región ISO 3166 (ej. "AR").
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	return &Normalizer{region: region}
}

// Normalize devuelve el número en E.164 si es válido para la región; si no, solo sus dígitos.
// Así "351 555-1234" y "(351) 5551234" chocan aunque el número no sea parseable.
func (n *Normalizer) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if p, err := libphonenumber.Parse(raw, n.region); err == nil && libphonenumber.IsValidNumber(p) {
		return libphonenumber.Format(p, libphonenumber.E164)
	}
	return digits(raw)
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
