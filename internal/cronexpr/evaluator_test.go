package cronexpr

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, spec, tz string) *Expr {
	t.Helper()
	e, err := Parse(spec, tz)
	if err != nil {
		t.Fatalf("Parse(%q, %q) error = %v", spec, tz, err)
	}
	return e
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		spec string
		tz   string
	}{
		{"not a cron", ""},
		{"* * * *", ""},          // four fields
		{"61 * * * *", ""},       // minute out of range
		{"* * * * *", "Mars/Olympus_Mons"},
		{"", ""},
	}

	for _, tt := range tests {
		if _, err := Parse(tt.spec, tt.tz); err == nil {
			t.Errorf("Parse(%q, %q) error = nil, want error", tt.spec, tt.tz)
		}
	}
}

func TestParse_ValidSpecs(t *testing.T) {
	tests := []struct {
		spec string
		tz   string
	}{
		{"* * * * *", ""},
		{"*/5 * * * *", "UTC"},
		{"0 9 * * *", "America/New_York"},
		{"30 6 * * 1", "Europe/Berlin"},
		{"@hourly", ""},
	}

	for _, tt := range tests {
		if _, err := Parse(tt.spec, tt.tz); err != nil {
			t.Errorf("Parse(%q, %q) error = %v, want nil", tt.spec, tt.tz, err)
		}
	}
}

func TestBetween_EveryFiveMinutes(t *testing.T) {
	e := mustParse(t, "*/5 * * * *", "UTC")

	from := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC)

	got := e.Between(from, to)
	if len(got) != 12 {
		t.Fatalf("Between() returned %d instants, want 12", len(got))
	}
	if !got[0].Equal(from) {
		t.Errorf("Between()[0] = %v, want %v (from itself matches)", got[0], from)
	}
	last := time.Date(2026, 8, 30, 12, 55, 0, 0, time.UTC)
	if !got[len(got)-1].Equal(last) {
		t.Errorf("Between() last = %v, want %v", got[len(got)-1], last)
	}
}

func TestBetween_AscendingAndInBounds(t *testing.T) {
	e := mustParse(t, "*/7 3-20 * * *", "UTC")

	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)

	got := e.Between(from, to)
	if len(got) == 0 {
		t.Fatal("Between() returned no instants")
	}
	for i, instant := range got {
		if instant.Before(from) || !instant.Before(to) {
			t.Errorf("Between()[%d] = %v outside [%v, %v)", i, instant, from, to)
		}
		if i > 0 && !got[i-1].Before(instant) {
			t.Errorf("Between()[%d] = %v not after previous %v", i, instant, got[i-1])
		}
	}
}

func TestBetween_HalfOpenUpperBound(t *testing.T) {
	e := mustParse(t, "0 * * * *", "UTC")

	from := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	got := e.Between(from, to)
	// 10:00 and 11:00; the 12:00 activation sits exactly at to and is out.
	if len(got) != 2 {
		t.Fatalf("Between() returned %d instants, want 2", len(got))
	}
	for _, instant := range got {
		if !instant.Before(to) {
			t.Errorf("Between() produced %v at or past the exclusive bound %v", instant, to)
		}
	}
}

func TestBetween_EmptyInterval(t *testing.T) {
	e := mustParse(t, "* * * * *", "UTC")
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	if got := e.Between(at, at); got != nil {
		t.Errorf("Between(t, t) = %v, want nil", got)
	}
	if got := e.Between(at.Add(time.Hour), at); got != nil {
		t.Errorf("Between(later, earlier) = %v, want nil", got)
	}
}

func TestBetween_SpringForwardSkipsNonexistentTime(t *testing.T) {
	// America/New_York skips 02:00-03:00 local on 2026-03-08.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	e := mustParse(t, "30 2 * * *", "America/New_York")
	from := time.Date(2026, 3, 7, 0, 0, 0, 0, loc)
	to := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)

	got := e.Between(from, to)
	if len(got) != 2 {
		t.Fatalf("Between() over spring-forward = %d instants, want 2 (Mar 7 and Mar 9)", len(got))
	}
	for _, instant := range got {
		if instant.In(loc).Day() == 8 {
			t.Errorf("Between() produced %v on the skipped day", instant.In(loc))
		}
	}
}

func TestBetween_SpringForwardOtherTimesUnaffected(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	e := mustParse(t, "0 9 * * *", "America/New_York")
	from := time.Date(2026, 3, 7, 0, 0, 0, 0, loc)
	to := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)

	got := e.Between(from, to)
	if len(got) != 3 {
		t.Fatalf("Between() = %d instants, want exactly one 09:00 per day", len(got))
	}
	for i, instant := range got {
		local := instant.In(loc)
		if local.Hour() != 9 || local.Minute() != 0 {
			t.Errorf("Between()[%d] = %v, want 09:00 local", i, local)
		}
	}
}

func TestBetween_FallBackRepeatedTimeFiresOnce(t *testing.T) {
	// America/New_York repeats 01:00-02:00 local on 2026-11-01; 01:30
	// exists at both 05:30 UTC (EDT) and 06:30 UTC (EST).
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	e := mustParse(t, "30 1 * * *", "America/New_York")
	from := time.Date(2026, 10, 31, 0, 0, 0, 0, loc)
	to := time.Date(2026, 11, 3, 0, 0, 0, 0, loc)

	got := e.Between(from, to)
	if len(got) != 3 {
		t.Fatalf("Between() over fall-back = %d instants, want exactly one 01:30 per day", len(got))
	}
	first := time.Date(2026, 11, 1, 5, 30, 0, 0, time.UTC)
	if !got[1].Equal(first) {
		t.Errorf("repeated 01:30 resolved to %v, want first occurrence %v", got[1].UTC(), first)
	}
	for i, instant := range got {
		local := instant.In(loc)
		if local.Hour() != 1 || local.Minute() != 30 {
			t.Errorf("Between()[%d] = %v, want 01:30 local", i, local)
		}
	}
}

func TestNext_TimezoneEvaluation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	e := mustParse(t, "0 9 * * *", "Asia/Tokyo")
	after := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	next := e.Next(after)
	if next.In(loc).Hour() != 9 {
		t.Errorf("Next() = %v, want 09:00 in Asia/Tokyo", next.In(loc))
	}
}
