package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins WHERE clauses with AND; an empty slice yields "TRUE".
func JoinWithAnd(clauses []string) string {
	if len(clauses) == 0 {
		return "TRUE"
	}
	return strings.Join(clauses, " AND ")
}

// WhereBuilder accumulates clauses and their positional arguments.
type WhereBuilder struct {
	clauses []string
	args    []any
}

// Add appends a clause; each "?" in clause is replaced by the next $n placeholder.
func (w *WhereBuilder) Add(clause string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// SQL returns the combined condition.
func (w *WhereBuilder) SQL() string {
	return JoinWithAnd(w.clauses)
}

// Args returns the arguments in placeholder order.
func (w *WhereBuilder) Args() []any {
	return w.args
}

// EscapeLike escapes LIKE wildcards in user input.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// MaxPage bounds the page number so that (page-1)*limit cannot overflow.
const MaxPage = 100000

// Pagination normalizes page/limit to a page in [1, MaxPage] and limit within [1, max].
func Pagination(page, limit, defaultLimit, max int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > max {
		limit = max
	}
	return page, limit, (page - 1) * limit
}
