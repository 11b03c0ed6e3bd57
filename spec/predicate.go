package spec

import (
	"strings"

	"github.com/uptrace/bun"
)

// Column is a typed accessor for a column of entity T whose Go value type is V.
// Predicates and orderings only accept columns of the entity they query.
type Column[T, V any] struct {
	name string
}

// Col declares a column of T.
func Col[T, V any](name string) Column[T, V] {
	return Column[T, V]{name: name}
}

// Name is the unqualified column name.
func (c Column[T, V]) Name() string { return c.name }

func (c Column[T, V]) column() string { return c.name }

func (Column[T, V]) of(T) {}

// Predicate is a boolean filter over rows of T. Predicates are combined with AND.
type Predicate[T any] interface {
	apply(q *bun.SelectQuery) *bun.SelectQuery
	of(T)
}

type predicateFunc[T any] func(q *bun.SelectQuery) *bun.SelectQuery

func (f predicateFunc[T]) apply(q *bun.SelectQuery) *bun.SelectQuery { return f(q) }

func (predicateFunc[T]) of(T) {}

// All matches every row.
func All[T any]() Predicate[T] {
	return predicateFunc[T](func(q *bun.SelectQuery) *bun.SelectQuery { return q })
}

// Eq matches rows where col equals v.
func Eq[T, V any](col Column[T, V], v V) Predicate[T] {
	return predicateFunc[T](func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(col.name), v)
	})
}

// AtLeast matches rows where col >= *min. A nil bound matches every row.
func AtLeast[T, V any](col Column[T, V], min *V) Predicate[T] {
	if min == nil {
		return All[T]()
	}
	v := *min
	return predicateFunc[T](func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? >= ?", bun.Ident(col.name), v)
	})
}

// AtMost matches rows where col <= *max. A nil bound matches every row.
func AtMost[T, V any](col Column[T, V], max *V) Predicate[T] {
	if max == nil {
		return All[T]()
	}
	v := *max
	return predicateFunc[T](func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? <= ?", bun.Ident(col.name), v)
	})
}

// ContainsFold matches rows where any of cols contains term, ignoring case.
// NULL columns never match. An empty or blank term matches every row.
func ContainsFold[T any](term string, cols ...Column[T, string]) Predicate[T] {
	term = strings.TrimSpace(term)
	if term == "" || len(cols) == 0 {
		return All[T]()
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return predicateFunc[T](func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, col := range cols {
				q = q.WhereOr("LOWER(?TableAlias.?) LIKE ? ESCAPE '!'", bun.Ident(col.name), pattern)
			}
			return q
		})
	})
}

// And matches rows satisfying every predicate.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return predicateFunc[T](func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, p := range preds {
			if p != nil {
				q = p.apply(q)
			}
		}
		return q
	})
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
