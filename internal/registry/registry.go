// Package registry holds the immutable set of configured schedules for the
// process lifetime. The set is validated and parsed once at load; readers
// never observe a partially-updated schedule because nothing mutates one.
package registry

import (
	"errors"
	"fmt"

	"github.com/cronbeat/cronbeat/internal/core"
	"github.com/cronbeat/cronbeat/internal/cronexpr"
)

// Entry pairs a schedule with its parsed, timezone-bound expression.
type Entry struct {
	Schedule core.Schedule
	Expr     *cronexpr.Expr
}

// Registry is a read-only snapshot of all configured schedules.
type Registry struct {
	entries []*Entry
	byName  map[string]*Entry
}

// New validates and parses every schedule. Invalid cron syntax, unknown
// timezones and duplicate names are all load-time errors; every offending
// schedule is reported, not just the first.
func New(schedules []core.Schedule) (*Registry, error) {
	r := &Registry{
		entries: make([]*Entry, 0, len(schedules)),
		byName:  make(map[string]*Entry, len(schedules)),
	}

	var errs []error
	for i := range schedules {
		s := schedules[i]

		if err := s.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, taken := r.byName[s.Name]; taken {
			errs = append(errs, fmt.Errorf("duplicate schedule name %q", s.Name))
			continue
		}

		expr, err := cronexpr.Parse(s.Expr, s.Timezone)
		if err != nil {
			errs = append(errs, fmt.Errorf("schedule %q: %w", s.Name, err))
			continue
		}

		entry := &Entry{Schedule: s, Expr: expr}
		r.entries = append(r.entries, entry)
		r.byName[s.Name] = entry
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("loading schedules: %w", errors.Join(errs...))
	}
	return r, nil
}

// All returns every entry in configuration order. Callers must not modify
// the returned slice.
func (r *Registry) All() []*Entry {
	return r.entries
}

// Get looks up a schedule by name.
func (r *Registry) Get(name string) (*Entry, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Len returns the number of schedules.
func (r *Registry) Len() int {
	return len(r.entries)
}
