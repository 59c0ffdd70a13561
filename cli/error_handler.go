package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/quill/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Create a quill.yml in your project root.\n")
		return err

	case errors.ErrCodeConfigValidation:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Fix the listed fields and run the command again.\n")
		return err

	case errors.ErrCodeUnknownColumn:
		if quillErr, ok := err.(*errors.QuillError); ok {
			fmt.Fprintf(os.Stderr, "❌ Table '%s' has no column '%s'\n",
				quillErr.Details["table"], quillErr.Details["column"])
			fmt.Fprintf(os.Stderr, "Check the db tags on the model struct.\n")
		}
		return err

	case errors.ErrCodeNoJoinCondition:
		if quillErr, ok := err.(*errors.QuillError); ok {
			fmt.Fprintf(os.Stderr, "❌ No join condition between '%s' and '%s'\n",
				quillErr.Details["source"], quillErr.Details["destination"])
			fmt.Fprintf(os.Stderr, "Add a ref tag on the foreign key field or pass an explicit On condition.\n")
		}
		return err

	case errors.ErrCodeExecFailed:
		if quillErr, ok := err.(*errors.QuillError); ok {
			fmt.Fprintf(os.Stderr, "❌ Query failed: %v\n", quillErr.Cause)
			if h.Verbose {
				fmt.Fprintf(os.Stderr, "SQL: %s\n", quillErr.Details["sql"])
			}
		}
		return err

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		if h.Verbose {
			if quillErr, ok := err.(*errors.QuillError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", quillErr.ToJSON())
			}
		}
		return err
	}
}
