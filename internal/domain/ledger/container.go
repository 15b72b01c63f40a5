package ledger

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// Container tipo de envase retornable que genera deuda de envases.
type Container int

const (
	NoContainer Container = iota
	Bidon20L
	Bidon12L
	Soda
)

// KindOf clasifica un producto (clave de catálogo o etiqueta libre) como envase.
// Acepta "bidon_20L", "Bidón 20L", "soda", "Sifón", etc.
func KindOf(product string) Container {
	key := fold(product)
	switch {
	case strings.Contains(key, "20l"), strings.Contains(key, "bidon20"):
		return Bidon20L
	case strings.Contains(key, "12l"), strings.Contains(key, "bidon12"):
		return Bidon12L
	case strings.HasPrefix(key, "soda"), strings.HasPrefix(key, "sifon"):
		return Soda
	}
	return NoContainer
}

// fold quita acentos, pasa a minúsculas y deja solo letras y dígitos.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(out) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DebtOf deuda de envases que genera una lista de líneas. Una lista vacía (cobro) no genera deuda.
func DebtOf(items []entity.SaleItem) entity.ContainerDebt {
	var d entity.ContainerDebt
	for _, it := range items {
		switch KindOf(it.Product) {
		case Bidon20L:
			d.Bidones20L += it.Quantity
		case Bidon12L:
			d.Bidones12L += it.Quantity
		case Soda:
			d.Sodas += it.Quantity
		}
	}
	return d
}

// Delta diferencia de deuda de envases al pasar de oldItems a newItems (por producto).
// Para un alta oldItems es nil; para una anulación newItems es nil.
func Delta(oldItems, newItems []entity.SaleItem) entity.ContainerDebt {
	return DebtOf(newItems).Add(DebtOf(oldItems).Neg())
}

// Apply aplica un delta a la deuda actual sin dejar ningún contador por debajo de cero.
func Apply(current, delta entity.ContainerDebt) entity.ContainerDebt {
	return current.Add(delta).ClampZero()
}

// SameProduct compara dos nombres de producto ignorando acentos, mayúsculas y separadores.
func SameProduct(a, b string) bool {
	return fold(a) == fold(b)
}
