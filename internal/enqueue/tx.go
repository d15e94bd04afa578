// Package enqueue implements the claim-and-push transaction. Replicas never
// coordinate with each other; correctness reduces to two store facts: the
// stream deduplicates publishes by message ID, and a claim record can only
// be created once. Publish happens before the claim is written, so a claim
// is never observable without its instruction. A crash in between leaves
// an instruction the next tick's re-publish deduplicates before the claim
// converges.
package enqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cronbeat/cronbeat/internal/core"
	"github.com/cronbeat/cronbeat/internal/dedup"
)

// Store is the slice of the store client the transaction needs.
type Store interface {
	// ClaimExists reports whether a claim record is held for key.
	ClaimExists(ctx context.Context, key string) (bool, error)
	// PublishInstruction idempotently publishes payload under key's message
	// ID, reporting whether the stream had already stored it.
	PublishInstruction(ctx context.Context, queue, key string, payload []byte) (duplicate bool, err error)
	// CreateClaim writes record for key if absent, reporting whether this
	// call created it.
	CreateClaim(ctx context.Context, key string, record []byte) (created bool, err error)
}

// ClaimRecord is the JSON stored under a dedup key, for operators
// inspecting the claims bucket. Its existence is what matters; the fields
// are observability only.
type ClaimRecord struct {
	Schedule  string `json:"schedule"`
	Instant   string `json:"instant"`
	ClaimedBy string `json:"claimed_by"`
	ClaimedAt string `json:"claimed_at"`
}

// Transaction performs atomic claim-and-push attempts against the store.
type Transaction struct {
	store     Store
	replicaID string
}

// New creates a Transaction. replicaID identifies this process in claim
// records and logs.
func New(store Store, replicaID string) *Transaction {
	return &Transaction{store: store, replicaID: replicaID}
}

// Enqueue attempts to claim the instant for sched and push its instruction.
// Concurrent calls for the same (schedule, instant) from any number of
// replicas yield exactly one pushed instruction; every loser observes
// OutcomeAlreadyClaimed. A returned error always accompanies
// OutcomeTransientFailure unless it is permanent (core.IsPermanent), in
// which case the caller must stop the process.
func (t *Transaction) Enqueue(ctx context.Context, sched *core.Schedule, instant time.Time) (core.Outcome, error) {
	key := dedup.Key(sched.Name, instant)

	held, err := t.store.ClaimExists(ctx, key)
	if err != nil {
		return core.OutcomeTransientFailure, err
	}
	if held {
		return core.OutcomeAlreadyClaimed, nil
	}

	now := time.Now()
	payload, err := core.NewInstruction(sched, instant, now).Marshal()
	if err != nil {
		// Args came straight from validated config; this cannot recur.
		return core.OutcomeTransientFailure, core.Permanent(fmt.Errorf("marshal instruction for %s: %w", sched.Name, err))
	}

	duplicate, err := t.store.PublishInstruction(ctx, sched.Queue, key, payload)
	if err != nil {
		return core.OutcomeTransientFailure, err
	}

	record, _ := json.Marshal(ClaimRecord{
		Schedule:  sched.Name,
		Instant:   core.FormatTime(instant),
		ClaimedBy: t.replicaID,
		ClaimedAt: core.FormatTime(now),
	})
	if _, err := t.store.CreateClaim(ctx, key, record); err != nil {
		// The publish succeeded, so the instruction exists; reporting
		// transient makes the next tick re-attempt, where the publish
		// deduplicates and the claim gets written.
		return core.OutcomeTransientFailure, err
	}

	// Exactly one caller across all replicas observes duplicate == false
	// for a given key; that caller pushed the instruction. Who created the
	// claim record is irrelevant to the outcome.
	if duplicate {
		return core.OutcomeAlreadyClaimed, nil
	}
	return core.OutcomePushed, nil
}
