package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrStepIncomplete    = errors.New("current step has no selection yet")
	ErrInvalidTransition = errors.New("transition is not allowed from the current step")
	ErrInvalidValue      = errors.New("unknown option")
	ErrBusy              = errors.New("a request is already in progress")
	ErrNoImage           = errors.New("there is no image to edit")
	ErrEmptyInstruction  = errors.New("edit instruction is empty")
)

// EditError is a failed image edit. It goes back to the caller only and never lands in
// the wizard error field.
type EditError struct {
	Err error
}

func (e *EditError) Error() string {
	return fmt.Sprintf("image edit failed: %v", e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}
