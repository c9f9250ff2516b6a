package forms

import (
	"errors"
	"fmt"

	"github.com/bbernstein/lacylights-netron/internal/device"
)

// ErrControlBusy is returned when a control still has a save in flight or a
// visible notification.
var ErrControlBusy = errors.New("forms: control busy")

// ValidationError is a save refused before anything was sent to the device.
type ValidationError struct {
	Control string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SaveError is a save the device did not confirm. The state is unchanged.
type SaveError struct {
	Endpoint string
	Err      error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("forms: save %s: %v", e.Endpoint, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// missing reports a port, preset, cue or input the state does not have.
func missing(format string, args ...interface{}) *ValidationError {
	v := invalid(format, args...)
	v.Err = device.ErrUnknownEntity
	return v
}

// refuse turns a validation failure from another package into a ValidationError.
func refuse(err error) *ValidationError {
	var v *ValidationError
	if errors.As(err, &v) {
		return v
	}
	return &ValidationError{Message: err.Error(), Err: err}
}
