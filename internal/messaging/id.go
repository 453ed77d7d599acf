package messaging

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// newMessageID returns a new ULID string (26 chars).
// ULIDs sort lexicographically by timestamp, so the ID doubles as a stable
// chronological tiebreaker for messages sharing a SentAt instant.
func newMessageID(now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
