// Package repository executes specifications against the store and stages writes
// behind an explicit unit-of-work commit.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/uptrace/bun"
)

type op struct {
	desc string
	run  func(ctx context.Context, tx bun.IDB) error
}

// UnitOfWork collects staged writes and applies them atomically on Commit.
// A UnitOfWork is meant for a single operation; create a new one per request.
type UnitOfWork struct {
	db *bun.DB

	mu      sync.Mutex
	pending []op
}

// NewUnitOfWork returns an empty unit of work over db.
func NewUnitOfWork(db *bun.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// DB is the connection used for reads.
func (u *UnitOfWork) DB() bun.IDB { return u.db }

// Pending reports how many writes are staged.
func (u *UnitOfWork) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.pending)
}

func (u *UnitOfWork) stage(o op) {
	u.mu.Lock()
	u.pending = append(u.pending, o)
	u.mu.Unlock()
}

// Discard drops every staged write.
func (u *UnitOfWork) Discard() {
	u.mu.Lock()
	u.pending = nil
	u.mu.Unlock()
}

// Commit applies the staged writes in staging order inside one transaction.
// Either all of them become durable or none do. The staged set is cleared either way.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	ops := u.pending
	u.pending = nil
	u.mu.Unlock()

	if len(ops) == 0 {
		return nil
	}
	return u.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, o := range ops {
			if err := o.run(ctx, tx); err != nil {
				return fmt.Errorf("%s: %w", o.desc, err)
			}
		}
		return nil
	})
}
