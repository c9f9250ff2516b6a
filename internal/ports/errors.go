package ports

import "errors"

// ErrOrphansClones is the kind of a mode change that would leave cloning ports
// without an outputting source.
var ErrOrphansClones = errors.New("ports: mode change orphans cloning ports")

// ErrCloneTarget is the kind of a clone target that cannot be cloned.
var ErrCloneTarget = errors.New("ports: invalid clone target")

// ErrRange is the kind of an inconsistent DMX range.
var ErrRange = errors.New("ports: invalid DMX range")

// Error is a validation failure with an operator-facing message.
type Error struct {
	Kind    error
	Ports   []int // 0-based ports involved, if any
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}
