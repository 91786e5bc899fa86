// Package setup is the step engine shared by the install and uninstall
// wizards. Each lifecycle action is a named Step; the executor runs
// them sequentially behind a progress page and logs every outcome.
package setup

import "errors"

// ErrCancelled is returned when the user cancels a running operation.
var ErrCancelled = errors.New("operation cancelled")

// StepResult is the outcome of one step.
type StepResult struct {
	// Skip marks the step as not needed (already done). Skipped steps
	// count as successful.
	Skip bool

	// Info is a success message, or the reason for a skip.
	Info string

	// Err is set when the step failed.
	Err error
}

// Success returns a successful result with an optional message.
func Success(info string) StepResult {
	return StepResult{Info: info}
}

// Skipped returns a result marking the step as not needed.
func Skipped(reason string) StepResult {
	return StepResult{Skip: true, Info: reason}
}

// Failed returns a failed result.
func Failed(err error) StepResult {
	return StepResult{Err: err}
}

// Step is a named action shown in the wizard's progress page.
type Step struct {
	Name   string
	Action func() StepResult
}

// SimpleStep wraps a plain error-returning function as a Step.
func SimpleStep(name string, action func() error) Step {
	return Step{
		Name: name,
		Action: func() StepResult {
			if err := action(); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}
