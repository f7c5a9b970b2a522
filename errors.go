package goshape

import (
	"errors"
	"fmt"
	"strings"
)

// Test names used by built-in tests. They double as message template keys.
const (
	TestDefault   = "default"
	TestRequired  = "required"
	TestDefined   = "defined"
	TestTypeError = "typeError"
	TestOneOf     = "oneOf"
	TestNotOneOf  = "notOneOf"
	TestMin       = "min"
	TestMax       = "max"
	TestLength    = "length"
	TestMatches   = "matches"
	TestInteger   = "integer"
	TestNoUnknown = "noUnknown"
)

// Configuration errors. They are wrapped in *ConfigError and signal a misused
// schema rather than a rejected value.
var (
	ErrCyclicDependency  = errors.New("cyclic dependency")
	ErrNotSchema         = errors.New("argument is not a schema")
	ErrInvalidLazy       = errors.New("lazy builder must return a schema")
	ErrKindMismatch      = errors.New("cannot concat schemas of different kinds")
	ErrInvalidTest       = errors.New("invalid test definition")
	ErrInvalidReference  = errors.New("invalid reference")
	ErrPathNotFound      = errors.New("schema does not contain the path")
	ErrInvalidCondition  = errors.New("condition must return a schema")
	ErrUnsupportedConcat = errors.New("schema kind does not support concat")
)

// ErrAsyncInSync is returned when a synchronous validation reaches a test
// declared as asynchronous.
var ErrAsyncInSync = errors.New("synchronous execution requested but an asynchronous predicate was used")

// ConfigError reports a schema that was built or used incorrectly.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Op == "" {
		return "goshape: " + e.Err.Error()
	}
	return "goshape: " + e.Op + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(op string, err error) *ConfigError { return &ConfigError{Op: op, Err: err} }

// ValidationError describes a value rejected by one or more tests. In
// collect-all mode it aggregates leaf errors in Inner; Errors always lists
// every leaf message.
type ValidationError struct {
	Path    string
	Message string
	Value   any
	// Type is the name of the test that failed; empty for aggregates.
	Type   string
	Params Params
	Inner  []*ValidationError
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Inner) == 0 {
		return e.Message
	}
	const maxShown = 3
	b := &strings.Builder{}
	b.WriteString(e.Message)
	b.WriteString(": ")
	lim := len(e.Inner)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Inner[i].Message)
	}
	if n := len(e.Inner); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Leaves returns the leaf errors: Inner for aggregates, or the error itself.
func (e *ValidationError) Leaves() []*ValidationError {
	if len(e.Inner) > 0 {
		return e.Inner
	}
	return []*ValidationError{e}
}

// newAggregate folds errs into one error at path. Nested aggregates are
// flattened so Inner only holds leaves.
func newAggregate(errs []*ValidationError, value any, path string) *ValidationError {
	agg := &ValidationError{Path: path, Value: value}
	for _, e := range errs {
		agg.Inner = append(agg.Inner, e.Leaves()...)
		if len(e.Errors) > 0 {
			agg.Errors = append(agg.Errors, e.Errors...)
		} else {
			agg.Errors = append(agg.Errors, e.Message)
		}
	}
	switch len(agg.Errors) {
	case 0:
	case 1:
		agg.Message = agg.Errors[0]
	default:
		agg.Message = fmt.Sprintf("%d errors occurred", len(agg.Errors))
	}
	return agg
}

// AsValidationError extracts a *ValidationError from err using errors.As.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsValidationError reports whether err carries a rejected value rather than
// a configuration or runtime failure.
func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}
