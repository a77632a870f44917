package rawdata

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Payload is one archived provider document, kept verbatim so normalizer
// changes can be replayed against what was actually received.
type Payload struct {
	Provider    string
	Kind        string
	EntityKey   string
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}

// Hash returns the hex sha256 of a raw document.
func Hash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func NewPayload(provider, kind, entityKey string, raw []byte, fetchedAt time.Time) Payload {
	return Payload{
		Provider:    provider,
		Kind:        kind,
		EntityKey:   entityKey,
		PayloadJSON: string(raw),
		PayloadHash: Hash(raw),
		FetchedAt:   fetchedAt.UTC(),
	}
}
