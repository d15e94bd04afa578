package core

import (
	"errors"
	"fmt"
)

// Outcome is the result of one enqueue attempt for a scheduled instant.
type Outcome int

const (
	// OutcomePushed means the instant was claimed and its instruction pushed.
	OutcomePushed Outcome = iota
	// OutcomeAlreadyClaimed means this or another replica claimed the instant
	// first. Expected under concurrency; not an error.
	OutcomeAlreadyClaimed
	// OutcomeTransientFailure means the store was unreachable. The instant
	// stays unclaimed and is retried on the next tick, bounded by the
	// missed-jobs window.
	OutcomeTransientFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomePushed:
		return "pushed"
	case OutcomeAlreadyClaimed:
		return "already_claimed"
	case OutcomeTransientFailure:
		return "transient_failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ErrorClass splits store failures into those worth retrying and those that
// must terminate the process.
type ErrorClass int

const (
	// ClassTransient covers network timeouts, reconnects in progress and
	// similar conditions that the next tick may not see.
	ClassTransient ErrorClass = iota
	// ClassPermanent covers authentication and configuration failures. A
	// scheduler that cannot trust its view of the store must stop rather
	// than degrade silently.
	ClassPermanent
)

// ClassifiedError wraps a store error with its retry class.
type ClassifiedError struct {
	Class ErrorClass
	Err   error
}

func (e *ClassifiedError) Error() string {
	if e.Class == ClassPermanent {
		return fmt.Sprintf("permanent store error: %v", e.Err)
	}
	return fmt.Sprintf("transient store error: %v", e.Err)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// Transient wraps err as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{Class: ClassTransient, Err: err}
}

// Permanent wraps err as fatal.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{Class: ClassPermanent, Err: err}
}

// IsPermanent reports whether err carries the permanent class. Unclassified
// errors are treated as transient: retrying an idempotent claim is always
// safe, exiting is not.
func IsPermanent(err error) bool {
	var ce *ClassifiedError
	return errors.As(err, &ce) && ce.Class == ClassPermanent
}
