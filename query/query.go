// Package query composes SELECT, INSERT, UPDATE and DELETE statements from
// table metadata and expressions. Queries carry no SQL themselves; a dialect
// builder renders them.
package query

import (
	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/expr"
	"github.com/grovetools/quill/model"
)

// Row is one result row keyed by output alias ("alias.column" for selected
// fields).
type Row = map[string]interface{}

// Query is implemented by all buildable statements.
type Query interface {
	// Err returns the first error recorded while composing the query.
	// Builders refuse to render a query with a non-nil Err.
	Err() error
}

// JoinType selects the SQL join flavor.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
)

// String returns the SQL keyword for the join type.
func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	case CrossJoin:
		return "CROSS"
	default:
		return "INNER"
	}
}

// Join is one resolved join clause.
type Join struct {
	Src       *model.Meta
	Dest      *model.Meta
	Type      JoinType
	Condition expr.Expr // nil for CROSS joins
	Attr      string    // parent attachment field populated by Unwrap, or ""
}

// JoinOption customizes a single Join call.
type JoinOption func(*joinSpec)

type joinSpec struct {
	condition expr.Expr
	attr      string
	attrSet   bool
	src       *model.Meta
}

// On supplies an explicit join condition instead of inferring one from
// foreign keys.
func On(condition expr.Expr) JoinOption {
	return func(s *joinSpec) { s.condition = condition }
}

// AttachTo names the parent struct field Unwrap appends joined children to.
// Pass "" to suppress attachment entirely.
func AttachTo(attr string) JoinOption {
	return func(s *joinSpec) { s.attr = attr; s.attrSet = true }
}

// JoinFrom overrides the join source for this call only, without the
// Switch bookkeeping.
func JoinFrom(src model.Tabler) JoinOption {
	return func(s *joinSpec) { s.src = src.TableMeta() }
}

// resolveJoin fills in the attachment attribute and condition the way the
// caller left them implicit: the attribute from the source model's
// attachment points, the condition from a foreign key on the destination
// that references the source table.
func resolveJoin(src, dest *model.Meta, typ JoinType, spec joinSpec) (Join, error) {
	j := Join{Src: src, Dest: dest, Type: typ, Condition: spec.condition, Attr: spec.attr}

	if !spec.attrSet {
		if attr, ok := src.AttachAttrFor(dest); ok {
			j.Attr = attr
		}
	}

	if typ == CrossJoin {
		j.Condition = nil
		return j, nil
	}

	if j.Condition == nil {
		for _, f := range dest.Fields() {
			refTable, refColumn, ok := f.References()
			if !ok || refTable != src.Name() {
				continue
			}
			srcField, err := src.Column(refColumn)
			if err != nil {
				return j, err
			}
			j.Condition = srcField.Eq(f)
			break
		}
		if j.Condition == nil {
			return j, errors.NoJoinCondition(src.Alias(), dest.Alias())
		}
	}

	return j, nil
}

// expandValues flattens tables into their field descriptors and keeps
// expressions as-is.
func expandValues(values []interface{}) ([]expr.Expr, error) {
	var out []expr.Expr
	for _, value := range values {
		switch v := value.(type) {
		case model.Tabler:
			for _, f := range v.TableMeta().Fields() {
				out = append(out, f)
			}
		case expr.Expr:
			out = append(out, v)
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"select values must be expressions or registered tables")
		}
	}
	return out, nil
}
