package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptPrefix = "$2"

// BcryptPayload is the parsed form of a bcrypt artifact.
type BcryptPayload struct {
	// Cost is the work factor recorded in the artifact.
	Cost int

	encoded []byte
}

func parseBcrypt(hashed string) (*BcryptPayload, error) {
	encoded := []byte(hashed)

	cost, err := bcrypt.Cost(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
	}

	return &BcryptPayload{Cost: cost, encoded: encoded}, nil
}

func (p *BcryptPayload) matches(plaintext string) bool {
	return bcrypt.CompareHashAndPassword(p.encoded, []byte(plaintext)) == nil
}

// Bcrypt implements Hash using bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt-based hasher.
//
// cost controls the hashing work factor (see bcrypt.DefaultCost). Values below
// bcrypt.MinCost fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}

	return &Bcrypt{cost: cost}
}

// Hash hashes plaintext using bcrypt.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	if err := checkPlaintext(plaintext); err != nil {
		return nil, err
	}

	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Verify returns true when plaintext matches the bcrypt artifact.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	a, err := Parse(hashed)
	if err != nil || a.Scheme != SchemeBcrypt {
		return false
	}

	return a.Matches(plaintext)
}
