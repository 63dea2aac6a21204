package xrand

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// TrackingID returns a human-readable payment tracking id. Uniqueness is
// best-effort; the provider payment id is the real idempotency key.
func TrackingID() string {
	return fmt.Sprintf("TRX-%d-%05d", time.Now().UnixMilli(), rand.IntN(100000))
}
