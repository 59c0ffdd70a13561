package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/grovetools/quill/errors"
)

// Transactions are pinned to contexts: Begin returns a derived context, and
// every Query or Exec on that context (or a child of it) runs inside the
// transaction. Nested Begin calls open savepoints on the same underlying
// transaction. Commit and Rollback must be called innermost-first with the
// context the transaction was begun on; anything else is an ordering error.

type txCtxKey struct{}

type txState struct {
	engine    *Engine
	tx        *sql.Tx
	depth     int
	savepoint string // "" for the outermost level
	open      int    // nested levels not yet completed
	parent    *txState
	done      bool
}

func currentTx(ctx context.Context) *txState {
	state, _ := ctx.Value(txCtxKey{}).(*txState)
	return state
}

// Tx is one open transaction level.
type Tx struct {
	state *txState
}

// Begin opens a transaction, or a savepoint when ctx already carries one,
// and returns the context the transaction is pinned to.
func (e *Engine) Begin(ctx context.Context) (context.Context, *Tx, error) {
	cur := currentTx(ctx)
	if cur != nil && cur.engine != e {
		// A transaction from another engine on the same context chain
		// would silently bypass it; refuse.
		return nil, nil, errors.TxState("context carries a transaction from a different engine")
	}

	var state *txState
	if cur == nil {
		tx, err := e.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, nil, err
		}
		state = &txState{engine: e, tx: tx, depth: 1}
		e.log.WithField("depth", 1).Debug("transaction started")
	} else {
		name := fmt.Sprintf("quill_sp_%d", cur.depth)
		if _, err := cur.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
			return nil, nil, err
		}
		cur.open++
		state = &txState{
			engine:    e,
			tx:        cur.tx,
			depth:     cur.depth + 1,
			savepoint: name,
			parent:    cur,
		}
		e.log.WithField("depth", state.depth).Debug("savepoint opened")
	}

	return context.WithValue(ctx, txCtxKey{}, state), &Tx{state: state}, nil
}

// Depth returns the nesting level, 1 for the outermost transaction.
func (t *Tx) Depth() int { return t.state.depth }

// Commit commits this level: the real transaction for the outermost level,
// a savepoint release otherwise.
func (t *Tx) Commit(ctx context.Context) error {
	if err := t.checkState(ctx); err != nil {
		return err
	}
	defer t.pop()

	if t.state.savepoint == "" {
		return t.state.tx.Commit()
	}
	_, err := t.state.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+t.state.savepoint)
	return err
}

// Rollback rolls back this level: the real transaction for the outermost
// level, a savepoint rollback otherwise.
func (t *Tx) Rollback(ctx context.Context) error {
	if err := t.checkState(ctx); err != nil {
		return err
	}
	defer t.pop()

	if t.state.savepoint == "" {
		return t.state.tx.Rollback()
	}
	name := t.state.savepoint
	if _, err := t.state.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); err != nil {
		return err
	}
	_, err := t.state.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name)
	return err
}

func (t *Tx) checkState(ctx context.Context) error {
	if t.state.done {
		return errors.TxState("transaction already completed")
	}
	if t.state.open > 0 {
		return errors.TxOrder()
	}
	if currentTx(ctx) != t.state {
		return errors.TxOrder()
	}
	return nil
}

func (t *Tx) pop() {
	t.state.done = true
	if t.state.parent != nil {
		t.state.parent.open--
	}
	t.state.engine.log.WithField("depth", t.state.depth).Debug("transaction level closed")
}

// RunInTransaction begins a transaction (or savepoint), runs fn with the
// pinned context, and commits on success or rolls back on error.
func (e *Engine) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, tx, err := e.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(txCtx); rbErr != nil {
			e.log.WithError(rbErr).Warn("rollback failed")
		}
		return err
	}
	return tx.Commit(txCtx)
}
