package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/sysml/pkg/domain"
)

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns the individual findings carried by err.
// A lone *domain.ValidationError yields a one-element slice; anything else yields nil.
func ValidationErrors(err error) []*domain.ValidationError {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		out := make([]*domain.ValidationError, 0, len(aggr.Errors))
		for _, e := range aggr.Errors {
			var ve *domain.ValidationError
			if errors.As(e, &ve) {
				out = append(out, ve)
			}
		}
		return out
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return []*domain.ValidationError{ve}
	}
	return nil
}

// collector accumulates findings in order.
type collector struct {
	errs []error
}

func (c *collector) add(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

func (c *collector) result() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: c.errs}
}
