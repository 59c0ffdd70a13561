package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/quill/errors"
)

func TestCommitRequiresPinnedContext(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	txCtx, tx, err := e.Begin(ctx)
	require.NoError(t, err)

	// Committing with a context that does not carry this transaction is
	// an ordering error.
	err = tx.Commit(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeTxOrder))

	require.NoError(t, tx.Commit(txCtx))
}

func TestOuterCannotCompleteBeforeInner(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	outerCtx, outer, err := e.Begin(ctx)
	require.NoError(t, err)

	innerCtx, inner, err := e.Begin(outerCtx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.Depth())

	err = outer.Commit(outerCtx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeTxOrder))

	require.NoError(t, inner.Commit(innerCtx))
	require.NoError(t, outer.Commit(outerCtx))
}

func TestDoubleCompleteFails(t *testing.T) {
	e := newEngine(t)

	txCtx, tx, err := e.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(txCtx))

	err = tx.Commit(txCtx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeTxState))
}

func TestQueriesOutsidePinnedContextSkipTransaction(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	txCtx, tx, err := e.Begin(ctx)
	require.NoError(t, err)

	_, err = e.ExecSQL(txCtx, "INSERT INTO user (name) VALUES (?)", "pending")
	require.NoError(t, err)

	require.NoError(t, tx.Rollback(txCtx))

	rows, err := e.QuerySQL(ctx, "SELECT count(*) AS n FROM user")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows[0]["n"])
}
