package device

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotLoaded is returned by setters before the first successful load.
var ErrNotLoaded = errors.New("device: state not loaded")

// ErrUnknownEntity is returned when a setter addresses a port, preset, cue or
// input that the loaded state does not have.
var ErrUnknownEntity = errors.New("device: unknown entity")

// LoadError reports a failed bulk load. No partial state is kept.
type LoadError struct {
	Documents []string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("device: load %s: %v", strings.Join(e.Documents, ", "), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
