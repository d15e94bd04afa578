package core

import (
	"strings"
	"testing"
	"time"
)

func TestScheduleValidate(t *testing.T) {
	valid := Schedule{Name: "n", Expr: "* * * * *", Queue: "q", JobType: "t"}

	tests := []struct {
		name    string
		mutate  func(*Schedule)
		wantErr string
	}{
		{"valid", func(s *Schedule) {}, ""},
		{"missing name", func(s *Schedule) { s.Name = "" }, "no name"},
		{"missing expression", func(s *Schedule) { s.Expr = "" }, "no cron expression"},
		{"missing queue", func(s *Schedule) { s.Queue = "" }, "no queue"},
		{"missing job type", func(s *Schedule) { s.JobType = "" }, "no job type"},
		{"dotted queue", func(s *Schedule) { s.Queue = "a.b" }, "subject token"},
		{"wildcard queue", func(s *Schedule) { s.Queue = "a>" }, "subject token"},
	}

	for _, tt := range tests {
		s := valid
		tt.mutate(&s)
		err := s.Validate()
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("%s: Validate() error = %v, want nil", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: Validate() error = %v, want mention of %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestNewInstruction(t *testing.T) {
	s := Schedule{Name: "nightly", Expr: "0 2 * * *", Queue: "reports", JobType: "report.generate"}
	instant := time.Date(2026, 8, 30, 2, 0, 0, 0, time.UTC)
	now := instant.Add(3 * time.Second)

	instr := NewInstruction(&s, instant, now)

	if instr.Type != "report.generate" || instr.Queue != "reports" || instr.Schedule != "nightly" {
		t.Errorf("NewInstruction() = %+v, want schedule fields carried over", instr)
	}
	if instr.ScheduledAt != "2026-08-30T02:00:00Z" {
		t.Errorf("ScheduledAt = %q, want 2026-08-30T02:00:00Z", instr.ScheduledAt)
	}
	if instr.EnqueuedAt != FormatTime(now) {
		t.Errorf("EnqueuedAt = %q, want %q", instr.EnqueuedAt, FormatTime(now))
	}

	if _, err := instr.Marshal(); err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
}
