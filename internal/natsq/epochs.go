package natsq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/cronbeat/cronbeat/internal/core"
)

// EnsureScheduleEpoch records when a schedule name first existed anywhere in
// the fleet, and returns that instant. The first replica to see a new
// schedule writes now; every later call, from any replica or any restart,
// reads the original value back. The walker uses the epoch to avoid
// back-filling instants from before the schedule was configured.
func (c *Client) EnsureScheduleEpoch(ctx context.Context, name string, now time.Time) (time.Time, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	now = now.UTC().Truncate(time.Second) // stored at TimeFormat precision
	_, err := c.schedules.Create(ctx, name, []byte(core.FormatTime(now)))
	if err == nil {
		return now, nil
	}
	if !errors.Is(err, jetstream.ErrKeyExists) {
		return time.Time{}, classify(fmt.Errorf("create epoch for %s: %w", name, err))
	}

	entry, err := c.schedules.Get(ctx, name)
	if err != nil {
		return time.Time{}, classify(fmt.Errorf("get epoch for %s: %w", name, err))
	}
	epoch, err := core.ParseTime(string(entry.Value()))
	if err != nil {
		return time.Time{}, core.Permanent(fmt.Errorf("corrupt epoch record for %s: %w", name, err))
	}
	return epoch, nil
}
