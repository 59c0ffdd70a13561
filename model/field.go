package model

import (
	"fmt"

	"github.com/grovetools/quill/expr"
)

// Field describes one column of a registered model. A Field is an
// expression: comparisons and arithmetic are built directly on it.
type Field struct {
	expr.Base
	meta      *Meta
	column    string
	attr      string
	index     int
	pk        bool
	refTable  string
	refColumn string
}

func (f *Field) ExprOp() expr.Op { return expr.OpField }

func (f *Field) Operands() []interface{} { return nil }

// TableAlias returns the effective alias of the owning table.
func (f *Field) TableAlias() string { return f.meta.Alias() }

// ColumnName returns the column name.
func (f *Field) ColumnName() string { return f.column }

// Table returns the owning table metadata.
func (f *Field) Table() *Meta { return f.meta }

// Attr returns the Go struct field name backing this column.
func (f *Field) Attr() string { return f.attr }

// PrimaryKey reports whether this column is part of the primary key.
func (f *Field) PrimaryKey() bool { return f.pk }

// References returns the "table.column" target of the foreign key declared
// on this field, or ok=false when the field is not a foreign key.
func (f *Field) References() (table, column string, ok bool) {
	if f.refTable == "" {
		return "", "", false
	}
	return f.refTable, f.refColumn, true
}

func (f *Field) String() string {
	return fmt.Sprintf("%s.%s", f.meta.Alias(), f.column)
}

var _ expr.FieldRef = (*Field)(nil)
