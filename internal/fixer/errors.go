package fixer

import "fmt"

// InvalidArgumentError reports an option value outside its allowed set.
type InvalidArgumentError struct {
	Arg   string
	Value string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s %q is not defined", e.Arg, e.Value)
}
