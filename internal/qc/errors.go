package qc

import (
	"errors"
	"fmt"
)

// ErrInvalidReturnMethod is returned by the façades before anything else is
// validated when the return method is not one of the three known values.
var ErrInvalidReturnMethod = errors.New(`qc: return method must be "all", "passed" or "failed"`)

// ErrEmptyRecord is returned by the record façades when the record carries
// no fields, so promotion would produce a table with no rows to flag.
var ErrEmptyRecord = errors.New("qc: record has no fields")

// ConfigError reports a structurally invalid battery configuration:
// duplicate or empty check names, or a missing function reference.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "qc: invalid configuration: " + e.Reason }

// UnknownFunctionError reports a check or preprocessing function name that
// is not present in the registry.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("qc: function %q is not registered", e.Name)
}

// InvalidParameterError reports a names-mapping key that is not a declared
// parameter of the target function.
type InvalidParameterError struct {
	Param string
	Func  string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("qc: %q is not a valid parameter of %q", e.Param, e.Func)
}

// UnknownColumnError reports a names-mapping value that is not a column of
// the observation table.
type UnknownColumnError struct {
	Column string
	Func   string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("qc: column %q requested by %q is not in the table", e.Column, e.Func)
}

// MissingPreprocessedError reports an argument that asks for a preprocessed
// variable the preprocessing configuration did not produce.
type MissingPreprocessedError struct {
	Name string
	Func string
}

func (e *MissingPreprocessedError) Error() string {
	return fmt.Sprintf("qc: preprocessed value %q requested by %q was not produced", e.Name, e.Func)
}

// TooManyPositionalError reports more positional inputs than the function
// declares parameters, for a function without variadic inputs.
type TooManyPositionalError struct {
	Func string
	Got  int
	Want int
}

func (e *TooManyPositionalError) Error() string {
	return fmt.Sprintf("qc: %q takes at most %d positional inputs, got %d", e.Func, e.Want, e.Got)
}

// UnknownKeywordError reports a keyword argument the function does not
// declare and cannot absorb.
type UnknownKeywordError struct {
	Param string
	Func  string
}

func (e *UnknownKeywordError) Error() string {
	return fmt.Sprintf("qc: %q got an unexpected keyword argument %q", e.Func, e.Param)
}

// MissingRequiredError reports a required parameter that neither the
// positional inputs nor the keyword arguments supply.
type MissingRequiredError struct {
	Param string
	Func  string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("qc: %q is missing required argument %q", e.Func, e.Param)
}

// ArgumentTypeError reports an argument value whose type does not satisfy
// the declared parameter type.
type ArgumentTypeError struct {
	Param string
	Func  string
	Want  string
	Value any
}

func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("qc: argument %q of %q must be %s, got %T", e.Param, e.Func, e.Want, e.Value)
}
