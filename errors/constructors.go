package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *QuillError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *QuillError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// UnknownColumn creates an error for a column lookup that found nothing
func UnknownColumn(table, column string) *QuillError {
	return New(ErrCodeUnknownColumn, fmt.Sprintf("table '%s' has no column '%s'", table, column)).
		WithDetail("table", table).
		WithDetail("column", column)
}

// NoJoinCondition creates an error for a join whose condition could not be inferred
func NoJoinCondition(src, dest string) *QuillError {
	return New(ErrCodeNoJoinCondition,
		fmt.Sprintf("could not find join condition between '%s' and '%s'", src, dest)).
		WithDetail("source", src).
		WithDetail("destination", dest)
}

// UnsupportedExpr creates an error for an expression the dialect cannot render
func UnsupportedExpr(op string) *QuillError {
	return New(ErrCodeUnsupportedExpr, fmt.Sprintf("expression '%s' is not supported by this dialect", op)).
		WithDetail("op", op)
}

// ExecFailed wraps a database execution failure
func ExecFailed(sql string, err error) *QuillError {
	return Wrap(err, ErrCodeExecFailed, "query execution failed").
		WithDetail("sql", sql)
}

// TxState creates an error for a transaction used outside its valid lifecycle
func TxState(reason string) *QuillError {
	return New(ErrCodeTxState, fmt.Sprintf("transaction has invalid state: %s", reason))
}

// TxOrder creates an error for transactions released out of order
func TxOrder() *QuillError {
	return New(ErrCodeTxOrder, "releasing transaction in incorrect order")
}

// NoRelation creates an error for a relation that cannot be resolved
func NoRelation(parent, child string) *QuillError {
	return New(ErrCodeNoRelation,
		fmt.Sprintf("could not find relationship between '%s' and '%s'", parent, child)).
		WithDetail("parent", parent).
		WithDetail("child", child)
}
