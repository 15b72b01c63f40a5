// Package linkcode genera los códigos con los que un empleado se vincula a un negocio.
package linkcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/jhoicas/reparto-api/internal/domain"
)

// Alphabet mayúsculas y dígitos sin los glifos ambiguos 0, O, 1, I, L.
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Length cantidad de caracteres del código.
const Length = 6

// MaxAttempts reintentos ante colisión antes de aceptar el último candidato.
const MaxAttempts = 10

// Generate devuelve un código aleatorio uniforme sobre Alphabet.
func Generate() (string, error) {
	limit := big.NewInt(int64(len(Alphabet)))
	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("linkcode: %w", err)
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b), nil
}

// TakenFunc informa si code ya es el código vigente de otro negocio distinto de excludeBusinessID.
type TakenFunc func(ctx context.Context, code, excludeBusinessID string) (bool, error)

// Issue genera un código evitando colisiones con otros negocios hasta MaxAttempts intentos.
// Si todos colisionan devuelve el último candidato igualmente (el índice único decide).
func Issue(ctx context.Context, businessID string, taken TakenFunc) (string, error) {
	var code string
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		c, err := Generate()
		if err != nil {
			return "", err
		}
		code = c
		used, err := taken(ctx, code, businessID)
		if err != nil {
			return "", err
		}
		if !used {
			return code, nil
		}
	}
	return code, nil
}

// SaveRounds veces que Assign vuelve a emitir un código si el índice único lo rechaza al guardar.
const SaveRounds = 2

// Assign emite un código con Issue y lo persiste con save. Si save choca con otro negocio
// (domain.ErrDuplicate) emite uno nuevo, hasta SaveRounds veces.
func Assign(ctx context.Context, businessID string, taken TakenFunc, save func(code string) error) (string, error) {
	var err error
	for round := 0; round < SaveRounds; round++ {
		var code string
		code, err = Issue(ctx, businessID, taken)
		if err != nil {
			return "", err
		}
		if err = save(code); err == nil {
			return code, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return "", err
		}
	}
	return "", err
}

// Normalize limpia lo que tipea el usuario: espacios y minúsculas.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid informa si code tiene el largo y los caracteres esperados.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(Alphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
