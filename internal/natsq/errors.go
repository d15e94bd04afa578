package natsq

import (
	"errors"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/cronbeat/cronbeat/internal/core"
)

// permanentErrs are store failures no retry can fix: bad credentials or a
// server that cannot serve JetStream at all.
var permanentErrs = []error{
	nats.ErrAuthorization,
	nats.ErrAuthExpired,
	nats.ErrAuthRevoked,
	jetstream.ErrJetStreamNotEnabled,
	jetstream.ErrJetStreamNotEnabledForAccount,
}

// classify wraps a store error with its retry class. Anything not known to
// be permanent is transient: a claim attempt is idempotent, so retrying on
// the next tick is always safe, exiting is not.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, p := range permanentErrs {
		if errors.Is(err, p) {
			return core.Permanent(err)
		}
	}
	return core.Transient(err)
}

// classifyConnect classifies an initial connection error. Authentication
// failures at dial time are permanent; an unreachable server is transient
// for an operation but fatal at startup, so the caller decides.
func classifyConnect(err error) error {
	return classify(err)
}
