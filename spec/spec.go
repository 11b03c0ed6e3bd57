// Package spec describes queries declaratively: a filter predicate, an ordering,
// optional paging and the relations to eager-load. A Spec is rendered onto a bun
// select query by the repository.
package spec

import (
	"strings"

	"github.com/uptrace/bun"
)

// Sortable is anything that names a sortable column of T.
type Sortable[T any] interface {
	column() string
	of(T)
}

type ordering struct {
	column string
	desc   bool
}

// Spec is a reusable query description for entity T. The zero value is not usable; call New.
type Spec[T any] struct {
	where    Predicate[T]
	order    []ordering
	skip     int
	take     int
	paged    bool
	includes []string
}

// New starts a specification filtered by pred. A nil predicate matches every row.
func New[T any](pred Predicate[T]) *Spec[T] {
	if pred == nil {
		pred = All[T]()
	}
	return &Spec[T]{where: pred}
}

// OrderBy sets the primary sort key, replacing any earlier ordering.
func (s *Spec[T]) OrderBy(col Sortable[T], desc bool) *Spec[T] {
	s.order = []ordering{{column: col.column(), desc: desc}}
	return s
}

// ThenBy adds a tie-breaking sort key. A column that is already ordered is ignored.
func (s *Spec[T]) ThenBy(col Sortable[T], desc bool) *Spec[T] {
	for _, o := range s.order {
		if o.column == col.column() {
			return s
		}
	}
	s.order = append(s.order, ordering{column: col.column(), desc: desc})
	return s
}

// Page skips skip rows and returns at most take rows.
func (s *Spec[T]) Page(skip, take int) *Spec[T] {
	if skip < 0 {
		skip = 0
	}
	s.skip, s.take, s.paged = skip, take, true
	return s
}

// Include eager-loads the named bun relations.
func (s *Spec[T]) Include(relations ...string) *Spec[T] {
	s.includes = append(s.includes, relations...)
	return s
}

// Paged reports whether the spec limits the result set.
func (s *Spec[T]) Paged() bool { return s.paged }

// Skip is the number of leading rows dropped when paged.
func (s *Spec[T]) Skip() int { return s.skip }

// Take is the page size when paged.
func (s *Spec[T]) Take() int { return s.take }

// Includes lists the relations to eager-load.
func (s *Spec[T]) Includes() []string { return append([]string(nil), s.includes...) }

// Ordering returns the primary sort column and direction; ok is false when unordered.
func (s *Spec[T]) Ordering() (column string, desc bool, ok bool) {
	if len(s.order) == 0 {
		return "", false, false
	}
	return s.order[0].column, s.order[0].desc, true
}

// OrderColumns lists every sort column, primary first.
func (s *Spec[T]) OrderColumns() []string {
	cols := make([]string, len(s.order))
	for i, o := range s.order {
		cols[i] = o.column
	}
	return cols
}

// ApplyFilter adds only the predicate. Count queries use it so that totals are
// computed over the same rows as the paged query.
func (s *Spec[T]) ApplyFilter(q *bun.SelectQuery) *bun.SelectQuery {
	return s.where.apply(q)
}

// Apply renders every facet in order: filter, include, order, page.
func (s *Spec[T]) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	q = s.ApplyFilter(q)
	for _, rel := range s.includes {
		q = q.Relation(rel)
	}
	for _, o := range s.order {
		dir := "ASC"
		if o.desc {
			dir = "DESC"
		}
		q = q.OrderExpr("?TableAlias.? "+dir, bun.Ident(o.column))
	}
	if s.paged {
		q = q.Offset(s.skip).Limit(s.take)
	}
	return q
}

// SortKeys maps public sort names to columns of T.
type SortKeys[T any] struct {
	keys     map[string]Sortable[T]
	fallback Sortable[T]
}

// NewSortKeys builds a lookup whose unknown names resolve to fallback, normally the primary key.
func NewSortKeys[T any](fallback Sortable[T], keys map[string]Sortable[T]) SortKeys[T] {
	norm := make(map[string]Sortable[T], len(keys))
	for k, v := range keys {
		norm[strings.ToLower(k)] = v
	}
	return SortKeys[T]{keys: norm, fallback: fallback}
}

// Resolve returns the column for name, case-insensitively.
func (k SortKeys[T]) Resolve(name string) Sortable[T] {
	if col, ok := k.keys[strings.ToLower(strings.TrimSpace(name))]; ok {
		return col
	}
	return k.fallback
}
