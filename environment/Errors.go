package environment

import "errors"

// ErrInvalidConfig is returned when an environment or task is given an
// invalid layout, such as a negative terminal state or a malformed map
var ErrInvalidConfig = errors.New("invalid configuration")
