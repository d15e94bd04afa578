// Package dedup derives the deterministic claim identifier for one
// (schedule, scheduled instant) pair. Every replica computes the same key
// for the same pair, with no replica-local state, which is what lets
// independent processes agree on "the same job occurrence" without a leader.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Key returns the dedup key for a schedule firing at instant. The instant is
// encoded as Unix seconds, so equal instants expressed in different
// timezones hash identically. The result is 64 lowercase hex characters,
// valid as a NATS KV key and message ID.
func Key(schedule string, instant time.Time) string {
	h := sha256.New()
	h.Write([]byte("schedule:"))
	h.Write([]byte(schedule))
	h.Write([]byte{0})
	h.Write([]byte("instant:"))
	h.Write([]byte(strconv.FormatInt(instant.Unix(), 10)))
	return hex.EncodeToString(h.Sum(nil))
}
