package query

import (
	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/expr"
	"github.com/grovetools/quill/model"
)

// Assignment pairs a column with the value written to it.
type Assignment struct {
	Field *model.Field
	Value interface{}
}

// InsertQuery composes an INSERT statement for one table.
type InsertQuery[T any] struct {
	meta      *model.Meta
	sets      []Assignment
	returning []expr.Expr
	err       error
}

// InsertInto starts an INSERT into a registered table.
func InsertInto[T any](table *model.Table[T]) *InsertQuery[T] {
	return &InsertQuery[T]{meta: table.TableMeta()}
}

// InsertRecord starts an INSERT for an instance of a registered model,
// resolving the table from the registry and assigning columns from the
// instance as Record does.
func InsertRecord[T any](inst *T, columns ...string) *InsertQuery[T] {
	q := &InsertQuery[T]{}
	meta, err := model.MetaOf(inst)
	if err != nil {
		q.fail(err)
		return q
	}
	q.meta = meta
	return q.Record(inst, columns...)
}

// Set assigns a value to a column. Columns render in call order.
func (q *InsertQuery[T]) Set(column string, value interface{}) *InsertQuery[T] {
	if q.err != nil {
		return q
	}
	f, err := q.meta.Column(column)
	if err != nil {
		q.fail(err)
		return q
	}
	q.sets = append(q.sets, Assignment{Field: f, Value: value})
	return q
}

// Record assigns columns from an instance. Without explicit columns, every
// column except the primary key is taken, leaving generated keys to the
// database.
func (q *InsertQuery[T]) Record(inst *T, columns ...string) *InsertQuery[T] {
	if q.err != nil {
		return q
	}
	fields := make([]*model.Field, 0, len(q.meta.Fields()))
	if len(columns) > 0 {
		for _, c := range columns {
			f, err := q.meta.Column(c)
			if err != nil {
				q.fail(err)
				return q
			}
			fields = append(fields, f)
		}
	} else {
		for _, f := range q.meta.Fields() {
			if !f.PrimaryKey() {
				fields = append(fields, f)
			}
		}
	}

	for _, f := range fields {
		value, err := q.meta.ColumnValue(inst, f)
		if err != nil {
			q.fail(err)
			return q
		}
		q.sets = append(q.sets, Assignment{Field: f, Value: value})
	}
	return q
}

// Returning appends RETURNING values. Tables expand to all of their fields.
func (q *InsertQuery[T]) Returning(values ...interface{}) *InsertQuery[T] {
	exprs, err := expandValues(values)
	if err != nil {
		q.fail(err)
		return q
	}
	q.returning = append(q.returning, exprs...)
	return q
}

func (q *InsertQuery[T]) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Err returns the first error recorded while composing the query.
func (q *InsertQuery[T]) Err() error {
	if q.err != nil {
		return q.err
	}
	if len(q.sets) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "insert with no values")
	}
	return nil
}

// Accessors used by dialect builders.

func (q *InsertQuery[T]) Table() *model.Meta           { return q.meta }
func (q *InsertQuery[T]) Assignments() []Assignment    { return q.sets }
func (q *InsertQuery[T]) ReturningValues() []expr.Expr { return q.returning }

// Unwrap maps RETURNING rows into model instances.
func (q *InsertQuery[T]) Unwrap(rows []Row) ([]*T, error) {
	instances, err := unwrapModels(q.meta, nil, rows)
	if err != nil {
		return nil, err
	}
	out := make([]*T, len(instances))
	for i, inst := range instances {
		out[i] = inst.(*T)
	}
	return out, nil
}
