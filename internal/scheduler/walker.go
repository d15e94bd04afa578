package scheduler

import (
	"time"

	"github.com/cronbeat/cronbeat/internal/registry"
)

// Walker computes, for one schedule at one tick, every instant inside the
// missed-jobs look-back window. A replica that was down recovers missed
// ticks on its next pass through here; instants older than the window are
// permanently skipped.
type Walker struct {
	// Window is the look-back duration. An instant exactly Window old is
	// still due; one second older is not.
	Window time.Duration
}

// Due returns the instants for entry inside [now-Window, now], ascending.
// now is truncated to the second before the interval is formed, matching
// the evaluator's whole-second instants. notBefore clips the look-back to
// the schedule's epoch so a newly configured schedule does not back-fill
// instants from before it existed; the zero value means no clipping.
func (w Walker) Due(entry *registry.Entry, now, notBefore time.Time) []time.Time {
	now = now.Truncate(time.Second)
	from := now.Add(-w.Window)
	if notBefore.After(from) {
		from = notBefore.Truncate(time.Second)
	}
	to := now.Add(time.Second)
	return entry.Expr.Between(from, to)
}
