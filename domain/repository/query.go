// Package repository defines store-agnostic query options shared by every
// persistence store.
package repository

import (
	"fmt"
	"strings"
)

// Option refines a Query. Domain packages wrap these in typed helpers such
// as entity.WithType so callers never spell column names.
type Option func(*Query)

// Query is the accumulated filter, ordering and window of a store lookup.
type Query struct {
	filters []Filter
	sorts   []Sort
	limit   int
	offset  int
}

// Build folds options into a Query.
func Build(options ...Option) Query {
	var q Query
	for _, opt := range options {
		opt(&q)
	}
	return q
}

// Filters returns the WHERE fragments in the order they were added.
func (q Query) Filters() []Filter { return append([]Filter(nil), q.filters...) }

// Sorts returns the ORDER BY terms in the order they were added.
func (q Query) Sorts() []Sort { return append([]Sort(nil), q.sorts...) }

// Limit returns the row cap, 0 meaning unbounded.
func (q Query) Limit() int { return q.limit }

// Offset returns the number of rows to skip.
func (q Query) Offset() int { return q.offset }

// Filter is one parameterised WHERE fragment, e.g. "type = ?" with its
// arguments.
type Filter struct {
	Clause string
	Args   []any
}

// Sort is one ORDER BY term.
type Sort struct {
	Column string
	Desc   bool
}

// String renders the term as SQL.
func (s Sort) String() string {
	if s.Desc {
		return s.Column + " DESC"
	}
	return s.Column + " ASC"
}

func where(clause string, args ...any) Option {
	return func(q *Query) {
		q.filters = append(q.filters, Filter{Clause: clause, Args: args})
	}
}

// WithCondition matches column = value.
func WithCondition(column string, value any) Option {
	return where(column+" = ?", value)
}

// WithConditionIn matches column IN values. values must be a slice.
func WithConditionIn(column string, values any) Option {
	return where(column+" IN ?", values)
}

// WithGreaterThan matches column > value.
func WithGreaterThan(column string, value any) Option {
	return where(column+" > ?", value)
}

// WithLike matches a case-insensitive substring of column. LIKE wildcards
// in substring are matched literally.
func WithLike(column, substring string) Option {
	escaped := likeEscaper.Replace(strings.ToLower(substring))
	return where(fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", column), "%"+escaped+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// WithWhere adds a raw clause with positional arguments.
func WithWhere(clause string, args ...any) Option {
	return where(clause, args...)
}

// WithID matches the id column.
func WithID(id int64) Option {
	return WithCondition("id", id)
}

// WithIDIn matches any of ids.
func WithIDIn(ids []int64) Option {
	return WithConditionIn("id", ids)
}

// WithLimit caps the number of rows.
func WithLimit(n int) Option {
	return func(q *Query) { q.limit = n }
}

// WithOffset skips the first n rows.
func WithOffset(n int) Option {
	return func(q *Query) { q.offset = n }
}

// WithOrderAsc sorts ascending on column.
func WithOrderAsc(column string) Option {
	return func(q *Query) { q.sorts = append(q.sorts, Sort{Column: column}) }
}

// WithOrderDesc sorts descending on column.
func WithOrderDesc(column string) Option {
	return func(q *Query) { q.sorts = append(q.sorts, Sort{Column: column, Desc: true}) }
}
