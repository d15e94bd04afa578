package natsq

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// PublishInstruction publishes a job instruction to the queue's subject with
// the dedup key as the message ID. The stream's duplicate-detection window
// makes the publish idempotent: a second publish with the same key is
// acknowledged without storing a second message, and duplicate reports it.
// This is the single store-level conditional operation the enqueue
// transaction's atomicity reduces to.
func (c *Client) PublishInstruction(ctx context.Context, queue, key string, payload []byte) (duplicate bool, err error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	ack, err := c.js.Publish(ctx, QueueJobsSubject(queue), payload, jetstream.WithMsgID(key))
	if err != nil {
		return false, classify(fmt.Errorf("publish instruction %s to queue %s: %w", key, queue, err))
	}
	return ack.Duplicate, nil
}
