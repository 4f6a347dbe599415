package saltsearch

import (
	"errors"
	"fmt"

	"github.com/hupe1980/saltsearch/experiment"
)

var (
	// ErrNoCandidates is returned when a run is started without candidates.
	ErrNoCandidates = errors.New("no candidates")

	// ErrUnknownFormat is returned for a report format that is not built in.
	ErrUnknownFormat = errors.New("unknown report format")
)

// ErrInvalidConfig indicates an invalid configuration field.
//
// The underlying validation error (if any) can be accessed via errors.Unwrap.
type ErrInvalidConfig struct {
	Field string
	Value any
	cause error
}

func (e *ErrInvalidConfig) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid config %s: %v", e.Field, e.cause)
	}
	return fmt.Sprintf("invalid config %s: %v", e.Field, e.Value)
}

func (e *ErrInvalidConfig) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// errors.Join from Config.Validate.
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		out := make([]error, len(errs))
		for i, e := range errs {
			out[i] = translateError(e)
		}
		return errors.Join(out...)
	}

	var fe *experiment.FieldError
	if errors.As(err, &fe) {
		return &ErrInvalidConfig{Field: fe.Field, Value: fe.Value, cause: err}
	}

	return err
}
