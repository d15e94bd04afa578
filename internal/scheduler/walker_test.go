package scheduler

import (
	"testing"
	"time"

	"github.com/cronbeat/cronbeat/internal/core"
	"github.com/cronbeat/cronbeat/internal/registry"
)

func entryFor(t *testing.T, name, expr, tz string) *registry.Entry {
	t.Helper()
	r, err := registry.New([]core.Schedule{
		{Name: name, Expr: expr, Timezone: tz, Queue: "q", JobType: "t"},
	})
	if err != nil {
		t.Fatalf("registry.New() error = %v", err)
	}
	entry, _ := r.Get(name)
	return entry
}

func TestWalkerDue_FullWindow(t *testing.T) {
	entry := entryFor(t, "every-minute", "* * * * *", "UTC")
	w := Walker{Window: time.Hour}

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	got := w.Due(entry, now, time.Time{})

	// 11:00 through 12:00 inclusive.
	if len(got) != 61 {
		t.Fatalf("Due() = %d instants, want 61", len(got))
	}
	if !got[0].Equal(now.Add(-time.Hour)) {
		t.Errorf("Due()[0] = %v, want %v (exactly window old is included)", got[0], now.Add(-time.Hour))
	}
	if !got[len(got)-1].Equal(now) {
		t.Errorf("Due() last = %v, want now %v", got[len(got)-1], now)
	}
}

func TestWalkerDue_WindowBoundary(t *testing.T) {
	entry := entryFor(t, "every-minute", "* * * * *", "UTC")
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	boundary := now.Add(-time.Hour) // activation at 11:00:00

	included := Walker{Window: time.Hour}.Due(entry, now, time.Time{})
	if !included[0].Equal(boundary) {
		t.Errorf("window=1h: first instant = %v, want boundary %v included", included[0], boundary)
	}

	// One second less look-back excludes the 11:00:00 activation.
	excluded := Walker{Window: time.Hour - time.Second}.Due(entry, now, time.Time{})
	if excluded[0].Equal(boundary) {
		t.Errorf("window=59m59s: first instant = %v, boundary must be excluded", excluded[0])
	}
}

func TestWalkerDue_MissedInstantsAscending(t *testing.T) {
	// A replica absent for 5 minutes sees exactly the 5 missed ticks plus
	// the current one, ascending, given claims filtered the rest upstream.
	entry := entryFor(t, "every-minute", "* * * * *", "UTC")
	w := Walker{Window: time.Hour}

	now := time.Date(2026, 8, 30, 12, 5, 0, 0, time.UTC)
	downSince := now.Add(-5 * time.Minute)

	got := w.Due(entry, now, time.Time{})
	var missed []time.Time
	for _, instant := range got {
		if instant.After(downSince) {
			missed = append(missed, instant)
		}
	}
	if len(missed) != 5 {
		t.Fatalf("instants after downtime start = %d, want 5", len(missed))
	}
	for i := 1; i < len(missed); i++ {
		if !missed[i-1].Before(missed[i]) {
			t.Errorf("missed instants not ascending at %d: %v then %v", i, missed[i-1], missed[i])
		}
	}
}

func TestWalkerDue_EpochClipsBackfill(t *testing.T) {
	// A schedule first registered at minute 0 must not back-fill instants
	// from before it existed, however wide the window.
	entry := entryFor(t, "every-five", "*/5 * * * *", "UTC")
	w := Walker{Window: time.Hour}

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	got := w.Due(entry, now, now)

	if len(got) != 1 {
		t.Fatalf("Due() = %d instants, want only the registration-time instant", len(got))
	}
	if !got[0].Equal(now) {
		t.Errorf("Due()[0] = %v, want %v", got[0], now)
	}
}

func TestWalkerDue_TruncatesSubsecondNow(t *testing.T) {
	entry := entryFor(t, "every-minute", "* * * * *", "UTC")
	w := Walker{Window: 2 * time.Minute}

	now := time.Date(2026, 8, 30, 12, 0, 0, 987654321, time.UTC)
	got := w.Due(entry, now, time.Time{})

	if len(got) != 3 {
		t.Fatalf("Due() = %d instants, want 3", len(got))
	}
	if !got[len(got)-1].Equal(now.Truncate(time.Second)) {
		t.Errorf("Due() last = %v, want truncated now %v", got[len(got)-1], now.Truncate(time.Second))
	}
}
