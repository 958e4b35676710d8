package storage

import (
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Where accumulates conjunctive predicates and their bound arguments.
// Predicates render in the order they were added, so identical calls produce
// identical SQL text and argument order. Column names must be constants.
type Where struct {
	clauses []string
	args    []any
}

// NewWhere returns an empty predicate set.
func NewWhere() *Where {
	return &Where{}
}

// Eq adds "col = ?" when val is non-empty.
func (w *Where) Eq(col, val string) *Where {
	if val == "" {
		return w
	}
	return w.add(col+" = ?", val)
}

// EqInt adds "col = ?" when val is non-zero.
func (w *Where) EqInt(col string, val int64) *Where {
	if val == 0 {
		return w
	}
	return w.add(col+" = ?", val)
}

// Bool adds "col = ?" with the integer form of val.
func (w *Where) Bool(col string, val bool) *Where {
	return w.add(col+" = ?", BoolInt(val))
}

// Like adds a parenthesised OR group matching term as a substring of any of cols.
// One argument is bound per column. LIKE wildcards in term are matched literally.
func (w *Where) Like(term string, cols ...string) *Where {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return w
	}
	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		parts[i] = c + ` LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return w.add("("+strings.Join(parts, " OR ")+")", args...)
}

// DayFrom adds "col >= 'day 00:00:00'" when day is a valid YYYY-MM-DD date.
func (w *Where) DayFrom(col, day string) *Where {
	if !validDay(day) {
		return w
	}
	return w.add(col+" >= ?", day+" 00:00:00")
}

// DayTo adds "col <= 'day 23:59:59'" when day is a valid YYYY-MM-DD date.
func (w *Where) DayTo(col, day string) *Where {
	if !validDay(day) {
		return w
	}
	return w.add(col+" <= ?", day+" 23:59:59")
}

// Since adds "col >= ?" for a timestamp.
func (w *Where) Since(col string, t time.Time) *Where {
	if t.IsZero() {
		return w
	}
	return w.add(col+" >= ?", FormatTime(t))
}

// SQL renders " WHERE a AND b" or "" when empty.
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// Args returns a copy of the bound arguments in predicate order.
func (w *Where) Args() []any {
	out := make([]any, len(w.args))
	copy(out, w.args)
	return out
}

// Len returns the number of predicates.
func (w *Where) Len() int {
	return len(w.clauses)
}

func (w *Where) add(clause string, args ...any) *Where {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
	return w
}

func validDay(day string) bool {
	if day == "" {
		return false
	}
	_, err := time.Parse(dayLayout, day)
	return err == nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
