// Package validation implements the field-rule pipeline applied to
// incoming create and update payloads before any store mutation. A chain
// is an explicit ordered sequence of rules over a candidate input; rules
// may normalise the candidate in place (trim, escape) and may perform
// context-aware lookups (uniqueness and reference checks). The chain
// produces the sanitised candidate plus an ordered list of field errors,
// never a panic.
package validation

import (
	"context"
	"fmt"
	"html"
	"strings"

	"catalog-service/internal/model"
)

// Rule checks one aspect of the candidate. It returns a field error when
// the check fails, or a non-nil error when the check itself could not
// run (e.g. a store lookup failed); the latter aborts the chain.
type Rule[T any] func(ctx context.Context, candidate *T) (*model.FieldError, error)

// Chain is an ordered sequence of rules applied to a candidate.
type Chain[T any] struct {
	rules []Rule[T]
}

// NewChain creates a chain that runs the given rules in order.
func NewChain[T any](rules ...Rule[T]) Chain[T] {
	return Chain[T]{rules: rules}
}

// Validate runs every rule in order, accumulating field errors. The
// candidate may be normalised even when errors are returned, so callers
// can echo the sanitised input back to the user.
func (c Chain[T]) Validate(ctx context.Context, candidate *T) ([]model.FieldError, error) {
	var fieldErrs []model.FieldError
	for _, rule := range c.rules {
		fe, err := rule(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if fe != nil {
			fieldErrs = append(fieldErrs, *fe)
		}
	}
	return fieldErrs, nil
}

// Trim normalises a field by removing surrounding whitespace.
func Trim[T any](get func(*T) *string) Rule[T] {
	return func(_ context.Context, candidate *T) (*model.FieldError, error) {
		f := get(candidate)
		*f = strings.TrimSpace(*f)
		return nil, nil
	}
}

// Required fails when the field is empty. It runs after Trim, so
// whitespace-only input counts as empty.
func Required[T any](field, message string, get func(*T) *string) Rule[T] {
	return func(_ context.Context, candidate *T) (*model.FieldError, error) {
		if *get(candidate) == "" {
			return &model.FieldError{Field: field, Message: message}, nil
		}
		return nil, nil
	}
}

// MaxLen fails when the field exceeds max bytes. Length is checked
// before escaping so entity expansion does not inflate the count.
func MaxLen[T any](field string, max int, get func(*T) *string) Rule[T] {
	return func(_ context.Context, candidate *T) (*model.FieldError, error) {
		if len(*get(candidate)) > max {
			return &model.FieldError{Field: field, Message: fmt.Sprintf("Must be at most %d characters", max)}, nil
		}
		return nil, nil
	}
}

// Escape HTML-escapes a field so stored values are safe to render.
func Escape[T any](get func(*T) *string) Rule[T] {
	return func(_ context.Context, candidate *T) (*model.FieldError, error) {
		f := get(candidate)
		*f = html.EscapeString(*f)
		return nil, nil
	}
}
