package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

const legacyHexLen = sha256.Size * 2

// LegacyPayload is the parsed form of an unsalted SHA-256 hex digest.
//
// These artifacts predate adaptive hashing and are only ever verified; Hash
// never produces them.
type LegacyPayload struct {
	Digest []byte
}

func parseLegacy(hashed string) (*LegacyPayload, error) {
	digest, err := hex.DecodeString(hashed)
	if err != nil || len(digest) != sha256.Size {
		return nil, ErrMalformedArtifact
	}

	return &LegacyPayload{Digest: digest}, nil
}

func (p *LegacyPayload) matches(plaintext string) bool {
	sum := sha256.Sum256([]byte(plaintext))

	return constantTimeEqual(p.Digest, sum[:])
}
