// Package postgres implements the repository interfaces on PostgreSQL via pgx.
package postgres

import (
	"fmt"
	"strings"
)

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends a condition. Every %d in cond is replaced by the placeholder
// index of arg.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	n := len(w.args)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "%d", fmt.Sprint(n)))
}

// addRaw appends a condition that takes no argument.
func (w *whereBuilder) addRaw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder index the next argument would get.
func (w *whereBuilder) next() int {
	return len(w.args) + 1
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns an ILIKE pattern matching s anywhere, with LIKE
// wildcards in s taken literally. Use with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func limitOffset(page, perPage int) (int, int) {
	if perPage <= 0 {
		perPage = 20
	}
	if page < 1 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}
