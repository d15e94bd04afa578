package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Schedule describes one configured cron entry. Schedules are loaded once at
// startup and never mutated; reconfiguration replaces the whole set.
type Schedule struct {
	Name     string          `json:"name"`
	Expr     string          `json:"cron"`
	Timezone string          `json:"timezone,omitempty"`
	Queue    string          `json:"queue"`
	JobType  string          `json:"job_type"`
	Args     json.RawMessage `json:"args,omitempty"`
}

// Validate checks the fields that do not require parsing the cron expression.
// Expression and timezone validity are checked by the registry at load time.
func (s *Schedule) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schedule has no name")
	}
	if s.Expr == "" {
		return fmt.Errorf("schedule %q has no cron expression", s.Name)
	}
	if s.Queue == "" {
		return fmt.Errorf("schedule %q has no queue", s.Name)
	}
	if err := validQueueName(s.Queue); err != nil {
		return fmt.Errorf("schedule %q: %w", s.Name, err)
	}
	if s.JobType == "" {
		return fmt.Errorf("schedule %q has no job type", s.Name)
	}
	return nil
}

// validQueueName rejects names that cannot form a single NATS subject token.
func validQueueName(queue string) error {
	if strings.ContainsAny(queue, ". *>\t\r\n") {
		return fmt.Errorf("queue name %q contains characters not allowed in a subject token", queue)
	}
	return nil
}
