package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration   = errors.New("invalid configuration")
	ErrDataType        = errors.New("invalid data type")
	ErrMissingColumn   = errors.New("missing column")
	ErrDegenerateInput = errors.New("degenerate input")
)

// ConfigurationError reports an invalid tunable parameter. It is never
// auto-corrected; the caller has to fix the value and retry.
type ConfigurationError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Param, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// DataTypeError reports a non-numeric cell in a column that must be numeric.
// Row is zero-based and relative to the table passed in.
type DataTypeError struct {
	Column string
	Row    int
	Value  string
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("column %q has non-numeric value %q at row %d", e.Column, e.Value, e.Row+1)
}

func (e *DataTypeError) Is(target error) bool { return target == ErrDataType }

// MissingColumnError reports a required column that is absent.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// DegenerateInputError reports an aggregate that is undefined for the input,
// such as a Pareto ranking whose value total is not positive.
type DegenerateInputError struct {
	Column string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input in %q: %s", e.Column, e.Reason)
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }

// ErrorKind returns a short machine-readable name for an engine error, or
// "internal" for anything else.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrDataType):
		return "data_type"
	case errors.Is(err, ErrMissingColumn):
		return "missing_column"
	case errors.Is(err, ErrDegenerateInput):
		return "degenerate_input"
	default:
		return "internal"
	}
}
