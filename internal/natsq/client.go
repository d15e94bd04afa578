// Package natsq is the store client: it wraps connectivity to NATS
// JetStream, including transparent failover across the configured server
// URLs, and exposes the two primitives the enqueue transaction needs: an
// idempotent publish and a create-if-absent claim record.
package natsq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Client wraps the shared store connection. Safe for concurrent use; the
// underlying NATS connection multiplexes all calls.
type Client struct {
	nc        *nats.Conn
	js        jetstream.JetStream
	claims    jetstream.KeyValue
	schedules jetstream.KeyValue
	timeout   time.Duration
}

// Connect dials the store and sets up JetStream resources. urls may list
// several servers separated by commas; reconnection to a newly-elected or
// replacement server happens inside the connection and is invisible to
// callers, which only ever see success, transient failure or permanent
// failure on individual operations.
func Connect(urls string, missedJobsWindow, timeout time.Duration) (*Client, error) {
	nc, err := nats.Connect(urls,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.Timeout(timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("store disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("store reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, classifyConnect(fmt.Errorf("connecting to NATS: %w", err))
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := SetupJetStream(ctx, js, missedJobsWindow); err != nil {
		nc.Close()
		return nil, fmt.Errorf("setting up JetStream: %w", err)
	}

	claims, err := js.KeyValue(ctx, BucketClaims)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("opening KV bucket %s: %w", BucketClaims, err)
	}
	schedules, err := js.KeyValue(ctx, BucketSchedules)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("opening KV bucket %s: %w", BucketSchedules, err)
	}

	return &Client{
		nc:        nc,
		js:        js,
		claims:    claims,
		schedules: schedules,
		timeout:   timeout,
	}, nil
}

// Close drains the connection.
func (c *Client) Close() error {
	c.nc.Close()
	return nil
}

// Connected reports whether the store connection is currently up.
func (c *Client) Connected() bool {
	return c.nc.Status() == nats.CONNECTED
}

// ConnectedURL returns the server currently serving this client, or empty
// while reconnecting.
func (c *Client) ConnectedURL() string {
	return c.nc.ConnectedUrl()
}

// opContext bounds a single store call.
func (c *Client) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}
