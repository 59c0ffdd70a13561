package builder

import (
	"fmt"
	"strings"

	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/expr"
	"github.com/grovetools/quill/model"
	"github.com/grovetools/quill/query"
)

func (c *core) buildSelect(q selectShape, args *Args) (string, error) {
	if len(q.SelectValues()) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "select with no values")
	}

	values, err := c.outputList(q.SelectValues(), args)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(values, ", "))

	if froms := q.FromTables(); len(froms) > 0 {
		type fromKey struct{ name, alias string }
		seen := make(map[fromKey]bool, len(froms))
		var entries []string
		for _, m := range froms {
			key := fromKey{m.Name(), m.Alias()}
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, c.tableRef(m))
		}
		b.WriteString(" FROM ")
		b.WriteString(strings.Join(entries, ", "))
	}

	for _, j := range q.Joins() {
		fmt.Fprintf(&b, " %s JOIN %s", j.Type, c.tableRef(j.Dest))
		if j.Type != query.CrossJoin {
			cond, err := c.emit(j.Condition, args)
			if err != nil {
				return "", err
			}
			b.WriteString(" ON ")
			b.WriteString(cond)
		}
	}

	if err := c.writeWhere(&b, q.Filters(), args); err != nil {
		return "", err
	}

	if terms := q.OrderTerms(); len(terms) > 0 {
		parts := make([]string, 0, len(terms))
		for _, t := range terms {
			s, err := c.emit(t, args)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}

	if n, ok := q.LimitValue(); ok {
		fmt.Fprintf(&b, " LIMIT %d", n)
	}
	if n, ok := q.OffsetValue(); ok {
		fmt.Fprintf(&b, " OFFSET %d", n)
	}

	return b.String(), nil
}

func (c *core) buildInsert(q insertShape, args *Args) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s", c.quote(q.Table().Name()))

	columns := make([]string, 0, len(q.Assignments()))
	placeholders := make([]string, 0, len(q.Assignments()))
	for _, set := range q.Assignments() {
		columns = append(columns, c.quote(set.Field.ColumnName()))
		s, err := c.emit(set.Value, args)
		if err != nil {
			return "", err
		}
		placeholders = append(placeholders, s)
	}
	fmt.Fprintf(&b, " (%s) VALUES (%s)", strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if err := c.writeReturning(&b, q.ReturningValues(), args); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (c *core) buildUpdate(q updateShape, args *Args) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET ", c.quote(q.Table().Name()))

	sets := make([]string, 0, len(q.Assignments()))
	for _, set := range q.Assignments() {
		s, err := c.emit(set.Value, args)
		if err != nil {
			return "", err
		}
		sets = append(sets, fmt.Sprintf("%s = %s", c.quote(set.Field.ColumnName()), s))
	}
	b.WriteString(strings.Join(sets, ", "))

	if err := c.writeWhere(&b, q.Filters(), args); err != nil {
		return "", err
	}
	if err := c.writeReturning(&b, q.ReturningValues(), args); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (c *core) buildDelete(q deleteShape, args *Args) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s", c.quote(q.Table().Name()))

	if err := c.writeWhere(&b, q.Filters(), args); err != nil {
		return "", err
	}
	if err := c.writeReturning(&b, q.ReturningValues(), args); err != nil {
		return "", err
	}
	return b.String(), nil
}

// outputList renders select or RETURNING values with their output aliases.
// Fields alias as "tablealias.column" so result rows key back into models.
func (c *core) outputList(values []expr.Expr, args *Args) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, value := range values {
		s, err := c.emit(value, args)
		if err != nil {
			return nil, err
		}

		var alias string
		if f, ok := value.(expr.FieldRef); ok {
			name := value.AliasName()
			if name == "" {
				name = f.ColumnName()
			}
			alias = f.TableAlias() + "." + name
		} else {
			alias = value.AliasName()
		}

		if alias != "" {
			s += " AS " + c.quote(alias)
		}
		out = append(out, s)
	}
	return out, nil
}

// tableRef renders a FROM or JOIN table entry, aliasing when the alias
// differs from the table name.
func (c *core) tableRef(m *model.Meta) string {
	if m.IsAliased() {
		return c.quote(m.Name()) + " AS " + c.quote(m.Alias())
	}
	return c.quote(m.Name())
}

func (c *core) writeWhere(b *strings.Builder, filters []expr.Expr, args *Args) error {
	if len(filters) == 0 {
		return nil
	}
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		s, err := c.emit(f, args)
		if err != nil {
			return err
		}
		// Filters are AND-joined; anything binding looser must keep its
		// own grouping.
		if c.precedenceOf(f) > precedenceMap[expr.OpAnd] {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(parts, " AND "))
	return nil
}

func (c *core) writeReturning(b *strings.Builder, values []expr.Expr, args *Args) error {
	if len(values) == 0 {
		return nil
	}
	if !c.supportsReturning {
		return errors.New(errors.ErrCodeUnsupportedQuery,
			fmt.Sprintf("dialect %s does not support RETURNING", c.name))
	}

	// RETURNING refers to the single target table, and not every dialect
	// accepts table-qualified columns there, so fields render bare. The
	// output alias keeps the "tablealias.column" form Unwrap expects.
	out := make([]string, 0, len(values))
	for _, value := range values {
		var s, alias string
		if f, ok := value.(expr.FieldRef); ok {
			s = c.quote(f.ColumnName())
			name := value.AliasName()
			if name == "" {
				name = f.ColumnName()
			}
			alias = f.TableAlias() + "." + name
		} else {
			rendered, err := c.emit(value, args)
			if err != nil {
				return err
			}
			s = rendered
			alias = value.AliasName()
		}
		if alias != "" {
			s += " AS " + c.quote(alias)
		}
		out = append(out, s)
	}
	b.WriteString(" RETURNING ")
	b.WriteString(strings.Join(out, ", "))
	return nil
}
