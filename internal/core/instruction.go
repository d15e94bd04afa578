package core

import (
	"encoding/json"
	"time"
)

// Instruction is the message pushed onto a queue for one scheduled instant.
// The worker owns the schema; this envelope only carries the schedule's
// payload template plus the instant it fired for.
type Instruction struct {
	Type        string          `json:"type"`
	Queue       string          `json:"queue"`
	Args        json.RawMessage `json:"args,omitempty"`
	Schedule    string          `json:"schedule"`
	ScheduledAt string          `json:"scheduled_at"`
	EnqueuedAt  string          `json:"enqueued_at"`
}

// NewInstruction builds the instruction for a schedule firing at instant.
func NewInstruction(s *Schedule, instant, now time.Time) *Instruction {
	return &Instruction{
		Type:        s.JobType,
		Queue:       s.Queue,
		Args:        s.Args,
		Schedule:    s.Name,
		ScheduledAt: FormatTime(instant),
		EnqueuedAt:  FormatTime(now),
	}
}

// Marshal serializes the instruction for publishing.
func (i *Instruction) Marshal() ([]byte, error) {
	return json.Marshal(i)
}
