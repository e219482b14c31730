package rating

import (
	"errors"
	"fmt"
)

var (
	ErrInputInvalid          = errors.New("input invalid")
	ErrDistanceUnavailable   = errors.New("distance unavailable")
	ErrNoApplicableZone      = errors.New("no applicable zone")
	ErrNoApplicableRoute     = errors.New("no applicable route")
	ErrNoApplicableTier      = errors.New("no applicable tier")
	ErrNoApplicableRate      = errors.New("no applicable rate")
	ErrDistanceOutOfCoverage = errors.New("distance out of coverage")
)

// Error is the single failure a rating call returns. It matches its Kind with
// errors.Is, and the underlying cause when there is one.
type Error struct {
	Kind    error
	Product Product
	Stage   string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("rating %s/%s: %v", e.Product, e.Stage, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fail(kind error, product Product, stage, format string, args ...any) *Error {
	return &Error{Kind: kind, Product: product, Stage: stage, Detail: fmt.Sprintf(format, args...)}
}

func unavailable(product Product, stage string, err error) *Error {
	return &Error{Kind: ErrDistanceUnavailable, Product: product, Stage: stage, Err: err}
}

// IsBusinessMiss reports whether err is an expected rule-lookup outcome rather
// than a fault.
func IsBusinessMiss(err error) bool {
	return errors.Is(err, ErrNoApplicableZone) ||
		errors.Is(err, ErrNoApplicableRoute) ||
		errors.Is(err, ErrNoApplicableTier) ||
		errors.Is(err, ErrNoApplicableRate) ||
		errors.Is(err, ErrDistanceOutOfCoverage)
}

// Outcome is a short label for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInputInvalid):
		return "input_invalid"
	case errors.Is(err, ErrDistanceUnavailable):
		return "distance_unavailable"
	case errors.Is(err, ErrNoApplicableZone):
		return "no_applicable_zone"
	case errors.Is(err, ErrNoApplicableRoute):
		return "no_applicable_route"
	case errors.Is(err, ErrNoApplicableTier):
		return "no_applicable_tier"
	case errors.Is(err, ErrNoApplicableRate):
		return "no_applicable_rate"
	case errors.Is(err, ErrDistanceOutOfCoverage):
		return "distance_out_of_coverage"
	default:
		return "error"
	}
}
