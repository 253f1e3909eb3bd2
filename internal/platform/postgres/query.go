package postgres

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// whereBuilder accumulates SQL predicates and their positional arguments.
// Count and List of every store share one builder so both queries see the
// same filter.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends a predicate. Each %d in cond is replaced with the placeholder
// number assigned to arg.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	n := len(w.args)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "%d", fmt.Sprint(n)))
}

// clause renders " WHERE a AND b", or "" when there are no predicates.
func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT and OFFSET placeholders and returns the clause and the
// full argument list.
func (w *whereBuilder) page(limit, offset int) (string, []any) {
	args := append(append([]any{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

// inPlaceholders renders "$start, $start+1, ..." for ids and returns the
// matching arguments.
func inPlaceholders(start int, ids []uuid.UUID) (string, []any) {
	parts := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("$%d", start+i)
		args[i] = id
	}
	return strings.Join(parts, ", "), args
}

// containsPattern turns a user search term into an ILIKE pattern, escaping
// the wildcard characters it may contain.
func containsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
