package natsq

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// ClaimExists reports whether a claim record is held for key.
func (c *Client) ClaimExists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	_, err := c.claims.Get(ctx, key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return false, nil
	}
	return false, classify(fmt.Errorf("get claim %s: %w", key, err))
}

// CreateClaim writes the claim record for key only if no record exists.
// Returns false without error when another replica holds the claim.
func (c *Client) CreateClaim(ctx context.Context, key string, record []byte) (created bool, err error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	_, err = c.claims.Create(ctx, key, record)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return false, nil
		}
		return false, classify(fmt.Errorf("create claim %s: %w", key, err))
	}
	return true, nil
}
