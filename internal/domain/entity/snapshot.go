package entity

import (
	"crypto/sha256"
	"encoding/hex"
)

// Snapshot is a compact textual rendering of the page at one moment:
// cleaned markup truncated to the configured budget, plus a content
// fingerprint cheap to store and compare.
type Snapshot struct {
	Content     string
	Fingerprint string
}

const fingerprintLen = 12

func NewSnapshot(content string) Snapshot {
	sum := sha256.Sum256([]byte(content))
	return Snapshot{
		Content:     content,
		Fingerprint: hex.EncodeToString(sum[:])[:fingerprintLen],
	}
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
