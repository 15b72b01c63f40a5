package postgres

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// whereBuilder arma cláusulas WHERE con placeholders numerados.
type whereBuilder struct {
	conds []string
	args  []any
}

// add agrega una condición; cada "?" se reemplaza por el siguiente $n.
func (w *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

// next devuelve el placeholder para un argumento extra (LIMIT, OFFSET).
func (w *whereBuilder) next(arg any) string {
	w.args = append(w.args, arg)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limitArg LIMIT NULL en PostgreSQL equivale a sin límite.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
