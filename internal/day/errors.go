package day

import "fmt"

// List names used in NotFoundError.
const (
	ListPending   = "up next"
	ListCompleted = "done today"
)

// ValidationError reports user input that can't be applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation on a task absent from the expected list.
type NotFoundError struct {
	Name string
	List string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q not found in %s", e.Name, e.List)
}
