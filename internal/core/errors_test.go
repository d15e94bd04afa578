package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomePushed, "pushed"},
		{OutcomeAlreadyClaimed, "already_claimed"},
		{OutcomeTransientFailure, "transient_failure"},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(tt.outcome), got, tt.want)
		}
	}
}

func TestErrorClassification(t *testing.T) {
	base := errors.New("boom")

	if !IsPermanent(Permanent(base)) {
		t.Error("IsPermanent(Permanent(err)) = false, want true")
	}
	if IsPermanent(Transient(base)) {
		t.Error("IsPermanent(Transient(err)) = true, want false")
	}
	if IsPermanent(base) {
		t.Error("IsPermanent(unclassified) = true, want false (unclassified is transient)")
	}
	if IsPermanent(nil) {
		t.Error("IsPermanent(nil) = true, want false")
	}
}

func TestErrorClassification_SurvivesWrapping(t *testing.T) {
	inner := Permanent(errors.New("authorization violation"))
	wrapped := fmt.Errorf("enqueue: %w", inner)

	if !IsPermanent(wrapped) {
		t.Error("IsPermanent(wrapped permanent) = false, want true")
	}
	if !errors.Is(wrapped, inner) {
		t.Error("wrapped error lost its chain")
	}
}

func TestClassifiedError_Unwrap(t *testing.T) {
	base := errors.New("timeout")
	if !errors.Is(Transient(base), base) {
		t.Error("Transient(err) does not unwrap to err")
	}
}
