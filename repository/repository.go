package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/courseapi/spec"
)

// ErrNoRows is returned by staged updates and deletes that matched nothing at commit time.
var ErrNoRows = errors.New("repository: no rows affected")

// Repository reads and stages writes for one entity type.
type Repository[T any] struct {
	uow *UnitOfWork
}

// For returns the repository of T bound to uow.
func For[T any](uow *UnitOfWork) *Repository[T] {
	return &Repository[T]{uow: uow}
}

// List returns the rows selected by s, in the order s describes. It never stages anything.
func (r *Repository[T]) List(ctx context.Context, s *spec.Spec[T]) ([]T, error) {
	out := []T{}
	q := s.Apply(r.uow.DB().NewSelect().Model(&out))
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list %T: %w", *new(T), err)
	}
	return out, nil
}

// First returns the first row selected by s, or nil when there is none.
func (r *Repository[T]) First(ctx context.Context, s *spec.Spec[T]) (*T, error) {
	rows, err := r.List(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Count returns how many rows match the predicate of s, ignoring ordering, paging and includes.
func (r *Repository[T]) Count(ctx context.Context, s *spec.Spec[T]) (int, error) {
	q := s.ApplyFilter(r.uow.DB().NewSelect().Model((*T)(nil)))
	n, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %T: %w", *new(T), err)
	}
	return n, nil
}

// Add stages an insert of entity.
func (r *Repository[T]) Add(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.uow.stage(op{
		desc: fmt.Sprintf("insert %T", entity),
		run: func(ctx context.Context, tx bun.IDB) error {
			_, err := tx.NewInsert().Model(entity).Exec(ctx)
			return err
		},
	})
	return nil
}

// Update stages a full-row update of entity by primary key.
func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.uow.stage(op{
		desc: fmt.Sprintf("update %T", entity),
		run: func(ctx context.Context, tx bun.IDB) error {
			res, err := tx.NewUpdate().Model(entity).WherePK().Exec(ctx)
			if err != nil {
				return err
			}
			return expectRows(res)
		},
	})
	return nil
}

// Delete stages a delete of entity by primary key.
func (r *Repository[T]) Delete(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.uow.stage(op{
		desc: fmt.Sprintf("delete %T", entity),
		run: func(ctx context.Context, tx bun.IDB) error {
			res, err := tx.NewDelete().Model(entity).WherePK().Exec(ctx)
			if err != nil {
				return err
			}
			return expectRows(res)
		},
	})
	return nil
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func expectRows(res rowsAffected) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRows
	}
	return nil
}
