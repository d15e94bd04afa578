// Package cronexpr evaluates cron expressions against wall-clock time in a
// schedule's timezone. Wall-clock fields are matched in the target location
// and converted to absolute instants, so a DST transition that skips a local
// time produces no instant and a repeated local time fires once, at its
// first absolute occurrence.
package cronexpr

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// parser accepts the standard five-field cron syntax plus descriptors
// such as "@daily".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Expr is a parsed cron expression bound to a timezone. It is immutable and
// safe for concurrent use.
type Expr struct {
	spec     string
	loc      *time.Location
	schedule cron.Schedule
}

// Parse validates the expression and timezone. An empty timezone means UTC.
// All syntax and timezone errors surface here, at schedule load time, never
// during evaluation.
func Parse(spec, timezone string) (*Expr, error) {
	loc := time.UTC
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
		}
	}

	schedule, err := parser.Parse("CRON_TZ=" + loc.String() + " " + spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	return &Expr{spec: spec, loc: loc, schedule: schedule}, nil
}

// Spec returns the original expression text.
func (e *Expr) Spec() string { return e.spec }

// Location returns the timezone the expression is evaluated in.
func (e *Expr) Location() *time.Location { return e.loc }

// Next returns the first instant strictly after t that the expression
// matches, or the zero time if none exists within the parser's horizon.
func (e *Expr) Next(t time.Time) time.Time {
	return e.schedule.Next(t)
}

// Between returns every instant in the half-open interval [from, to) that
// the expression matches, in ascending order. Instants are whole seconds;
// the walk starts one second before from so an activation exactly at from
// is included. A local time repeated by a fall-back transition yields one
// instant, at its first absolute occurrence.
func (e *Expr) Between(from, to time.Time) []time.Time {
	if !from.Before(to) {
		return nil
	}

	var instants []time.Time
	for t := e.schedule.Next(from.Add(-time.Second)); !t.IsZero() && t.Before(to); t = e.schedule.Next(t) {
		if t.Before(from) {
			continue
		}
		// During a fall-back transition the underlying schedule matches the
		// repeated wall-clock time in both offsets.
		if n := len(instants); n > 0 && e.sameLocalMinute(instants[n-1], t) {
			continue
		}
		instants = append(instants, t)
	}
	return instants
}

// sameLocalMinute reports whether a and b render as the same wall-clock
// minute in the expression's timezone. Distinct absolute instants can
// collide only across a fall-back transition.
func (e *Expr) sameLocalMinute(a, b time.Time) bool {
	a, b = a.In(e.loc), b.In(e.loc)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day() &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute()
}
