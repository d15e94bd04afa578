package natsq

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// duplicateWindow sizes the stream's duplicate-detection window at twice
// the missed-jobs window, matching the claim record TTL. A replica may
// re-attempt an instant up to a full window after it fired, plus whatever
// clock skew separates the fleet; doubling covers both without relying on
// the claim fast-path alone.
func duplicateWindow(missedJobsWindow time.Duration) time.Duration {
	dupWindow := 2 * missedJobsWindow
	if dupWindow < 2*time.Minute {
		dupWindow = 2 * time.Minute
	}
	return dupWindow
}

// SetupJetStream creates the instruction stream and the claims KV bucket.
//
// The stream's duplicate-detection window and the claim bucket TTL are both
// derived from the missed-jobs window: the stream must deduplicate message
// IDs for at least as long as a replica may re-attempt an instant, and a
// claim record must outlive the window so a late replica still sees it.
func SetupJetStream(ctx context.Context, js jetstream.JetStream, missedJobsWindow time.Duration) error {
	dupWindow := duplicateWindow(missedJobsWindow)

	maxAge := 24 * time.Hour
	if maxAge < 2*dupWindow {
		maxAge = 2 * dupWindow
	}

	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{QueueAllSubject()},
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.WorkQueuePolicy,
		MaxAge:     maxAge,
		Discard:    jetstream.DiscardOld,
		Duplicates: dupWindow,
	})
	if err != nil {
		return fmt.Errorf("creating stream %s: %w", StreamName, err)
	}

	_, err = js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  BucketClaims,
		Storage: jetstream.FileStorage,
		TTL:     2 * missedJobsWindow,
	})
	if err != nil {
		return fmt.Errorf("creating KV bucket %s: %w", BucketClaims, err)
	}

	// Schedule epochs never expire; the walker must not look back past a
	// schedule's first registration no matter how old it is.
	_, err = js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  BucketSchedules,
		Storage: jetstream.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("creating KV bucket %s: %w", BucketSchedules, err)
	}

	return nil
}
