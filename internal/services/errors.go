package services

import "fmt"

// ComputationError marks which dashboard widget failed so the caller can
// degrade that widget alone instead of the whole dashboard.
type ComputationError struct {
	Widget string
	Err    error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computing %s: %v", e.Widget, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

func widgetErr(widget string, err error) error {
	if err == nil {
		return nil
	}
	return &ComputationError{Widget: widget, Err: err}
}
