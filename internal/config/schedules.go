package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cronbeat/cronbeat/internal/core"
)

// LoadSchedules reads the JSON schedule list from path. The file is a JSON
// array of objects: {name, cron, timezone, queue, job_type, args}. Semantic
// validation (cron syntax, timezones, duplicate names) belongs to the
// registry; this only decodes.
func LoadSchedules(path string) ([]core.Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedules file: %w", err)
	}

	var schedules []core.Schedule
	if err := json.Unmarshal(data, &schedules); err != nil {
		return nil, fmt.Errorf("parsing schedules file %s: %w", path, err)
	}

	return schedules, nil
}
