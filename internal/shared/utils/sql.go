package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// JoinWithOr joins a slice of strings with OR operator
func JoinWithOr(clauses []string) string {
	return strings.Join(clauses, " OR ")
}

// QueryArgs collects positional arguments for a dynamically built query.
type QueryArgs struct {
	values []any
}

// Add appends v and returns its placeholder ($1, $2, ...).
func (a *QueryArgs) Add(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

func (a *QueryArgs) Values() []any {
	return a.values
}

func (a *QueryArgs) Len() int {
	return len(a.values)
}
