package edit

import "fmt"

// ValidationError reports a structurally required command field that is
// missing, e.g. a move without a destination section.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports that a required named target or section does not
// exist in the document.
type NotFoundError struct {
	Kind string // "field" or "section"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// ApplyError wraps any failure that is neither a validation nor a
// not-found condition.
type ApplyError struct {
	Msg string
	Err error
}

func (e *ApplyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to apply edit: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("failed to apply edit: %s", e.Msg)
}

func (e *ApplyError) Unwrap() error { return e.Err }
