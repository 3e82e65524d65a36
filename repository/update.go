package repository

import (
	"fmt"
	"strings"
)

// setClause accumulates "column = $n" pairs for partial updates. Column names
// are always literals from this package, never caller input.
type setClause struct {
	parts []string
	args  []interface{}
}

// newSetClause starts numbering placeholders after the first offset args,
// which the caller reserves for the WHERE clause.
func newSetClause(whereArgs ...interface{}) *setClause {
	return &setClause{args: whereArgs}
}

func (s *setClause) add(column string, value interface{}) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setClause) empty() bool {
	return len(s.parts) == 0
}

func (s *setClause) String() string {
	return strings.Join(append(s.parts, "updated_at = NOW()"), ", ")
}
