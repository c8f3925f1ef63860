package forms

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrAlreadyOpen   = errors.New("a form is already open")
	ErrClosed        = errors.New("no form is open")
	ErrSubmitting    = errors.New("form is being submitted")
	ErrNotSubmitting = errors.New("form is not being submitted")
	ErrUnknownField  = errors.New("unknown field")
)

// ValidationError lists the fields that failed local validation. Nothing
// was sent to the server.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
