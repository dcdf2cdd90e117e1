package scanner

import "fmt"

// RunError is fatal: the root of the walk could not be enumerated at all.
// No partial RunResult accompanies it.
type RunError struct {
	Path string
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("cannot scan %s: %v", e.Path, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
