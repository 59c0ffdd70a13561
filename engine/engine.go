// Package engine executes composed queries against a database/sql handle
// and maps result rows back into models. Transactions are pinned to a
// context; see Begin.
package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/quill/builder"
	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/logging"
	"github.com/grovetools/quill/query"
)

// Engine ties a database handle to a dialect builder.
type Engine struct {
	db  *sql.DB
	bld builder.Builder
	log *logrus.Entry
}

// New creates an engine over an opened database handle.
func New(db *sql.DB, bld builder.Builder) *Engine {
	return &Engine{
		db:  db,
		bld: bld,
		log: logging.NewLogger("engine"),
	}
}

// DB exposes the underlying handle.
func (e *Engine) DB() *sql.DB { return e.db }

// Builder exposes the dialect builder.
func (e *Engine) Builder() builder.Builder { return e.bld }

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// conn returns the transaction pinned to ctx, or the pooled handle.
func (e *Engine) conn(ctx context.Context) querier {
	if state := currentTx(ctx); state != nil && state.engine == e {
		return state.tx
	}
	return e.db
}

// Query builds and runs a query, returning all rows.
func (e *Engine) Query(ctx context.Context, q query.Query) ([]query.Row, error) {
	sqlStr, args, err := e.bld.Build(q)
	if err != nil {
		return nil, err
	}
	return e.QuerySQL(ctx, sqlStr, args...)
}

// QuerySQL runs raw SQL, returning all rows keyed by output column name.
func (e *Engine) QuerySQL(ctx context.Context, sqlStr string, args ...interface{}) ([]query.Row, error) {
	log := e.queryLog(sqlStr)
	start := time.Now()

	rows, err := e.conn(ctx).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.WithError(err).Debug("query failed")
		return nil, errors.ExecFailed(sqlStr, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, errors.ExecFailed(sqlStr, err)
	}

	log.WithFields(logrus.Fields{
		"rows":     len(out),
		"duration": time.Since(start),
	}).Debug("query complete")
	return out, nil
}

// Exec builds and runs a statement that returns no rows, reporting the
// number of affected rows.
func (e *Engine) Exec(ctx context.Context, q query.Query) (int64, error) {
	sqlStr, args, err := e.bld.Build(q)
	if err != nil {
		return 0, err
	}
	return e.ExecSQL(ctx, sqlStr, args...)
}

// ExecSQL runs raw SQL that returns no rows.
func (e *Engine) ExecSQL(ctx context.Context, sqlStr string, args ...interface{}) (int64, error) {
	log := e.queryLog(sqlStr)
	start := time.Now()

	res, err := e.conn(ctx).ExecContext(ctx, sqlStr, args...)
	if err != nil {
		log.WithError(err).Debug("exec failed")
		return 0, errors.ExecFailed(sqlStr, err)
	}

	affected, _ := res.RowsAffected()
	log.WithFields(logrus.Fields{
		"affected": affected,
		"duration": time.Since(start),
	}).Debug("exec complete")
	return affected, nil
}

func (e *Engine) queryLog(sqlStr string) *logrus.Entry {
	return e.log.WithFields(logrus.Fields{
		"query_id": uuid.NewString(),
		"sql":      sqlStr,
	})
}

func scanRows(rows *sql.Rows) ([]query.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []query.Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scan := make([]interface{}, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}

		row := make(query.Row, len(columns))
		for i, name := range columns {
			row[name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ModelQuery is a query whose rows unwrap into instances of T.
type ModelQuery[T any] interface {
	query.Query
	Unwrap([]query.Row) ([]*T, error)
}

// All runs a model query and unwraps every row.
func All[T any](ctx context.Context, e *Engine, q ModelQuery[T]) ([]*T, error) {
	rows, err := e.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return q.Unwrap(rows)
}

// First runs a model query and returns the first instance, or sql.ErrNoRows
// when the result is empty.
func First[T any](ctx context.Context, e *Engine, q ModelQuery[T]) (*T, error) {
	instances, err := All(ctx, e, q)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, sql.ErrNoRows
	}
	return instances[0], nil
}
