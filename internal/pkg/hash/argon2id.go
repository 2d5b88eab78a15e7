package hash

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2idPrefix = "$argon2id$"

// Bounds applied when parsing stored artifacts so a crafted row cannot demand
// unbounded memory or time.
const (
	minArgon2Memory    uint32 = 8
	maxArgon2Memory    uint32 = 1 << 20 // 1 GiB in KiB
	maxArgon2Iteration uint32 = 32
	minArgon2SaltLen          = 8
	minArgon2KeyLen           = 16
	maxArgon2KeyLen           = 128
)

// Argon2idConfig holds argon2id cost parameters. Zero fields take defaults.
type Argon2idConfig struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Argon2idPayload is the parsed form of an argon2id artifact.
type Argon2idPayload struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	Salt        []byte
	Digest      []byte
}

func (p *Argon2idPayload) matches(plaintext string) bool {
	computed := argon2.IDKey([]byte(plaintext), p.Salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(p.Digest)))

	return constantTimeEqual(p.Digest, computed)
}

// Argon2id implements the Hash interface using Argon2id.
type Argon2id struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

// NewArgon2id returns a Argon2id hasher; zero config fields use recommended defaults.
func NewArgon2id(cfg Argon2idConfig) *Argon2id {
	a := &Argon2id{
		memory:      32 * 1024, // 32MB
		iterations:  3,
		parallelism: 2,
		saltLength:  16,
		keyLength:   32,
	}

	if cfg.Memory > 0 {
		a.memory = cfg.Memory
	}
	if cfg.Iterations > 0 {
		a.iterations = cfg.Iterations
	}
	if cfg.Parallelism > 0 {
		a.parallelism = cfg.Parallelism
	}
	if cfg.SaltLength > 0 {
		a.saltLength = cfg.SaltLength
	}
	if cfg.KeyLength > 0 {
		a.keyLength = cfg.KeyLength
	}

	return a
}

// Hash takes a plaintext string and returns its PHC-encoded argon2id artifact.
func (a *Argon2id) Hash(str string) ([]byte, error) {
	if err := checkPlaintext(str); err != nil {
		return nil, err
	}

	salt := make([]byte, a.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(str), salt, a.iterations, a.memory, a.parallelism, a.keyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.memory,
		a.iterations,
		a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)

	return []byte(encoded), nil
}

// Verify checks if the given plaintext string matches the argon2id artifact.
func (a *Argon2id) Verify(hashed, str string) bool {
	art, err := Parse(hashed)
	if err != nil || art.Scheme != SchemeArgon2id {
		return false
	}

	return art.Matches(str)
}

func parseArgon2id(hashed string) (*Argon2idPayload, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, digest
	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, ErrMalformedArtifact
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") || version != argon2.Version {
		return nil, ErrMalformedArtifact
	}

	p := &Argon2idPayload{}
	if err := parseArgon2Params(parts[3], p); err != nil {
		return nil, err
	}

	if p.Salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.Salt) < minArgon2SaltLen {
		return nil, ErrMalformedArtifact
	}

	if p.Digest, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil ||
		len(p.Digest) < minArgon2KeyLen || len(p.Digest) > maxArgon2KeyLen {
		return nil, ErrMalformedArtifact
	}

	return p, nil
}

func parseArgon2Params(part string, p *Argon2idPayload) error {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return ErrMalformedArtifact
	}

	var seen int
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return ErrMalformedArtifact
		}

		switch key {
		case "m":
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil || uint32(v) < minArgon2Memory || uint32(v) > maxArgon2Memory {
				return ErrMalformedArtifact
			}
			p.Memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil || v == 0 || uint32(v) > maxArgon2Iteration {
				return ErrMalformedArtifact
			}
			p.Iterations = uint32(v)
		case "p":
			v, err := strconv.ParseUint(raw, 10, 8)
			if err != nil || v == 0 {
				return ErrMalformedArtifact
			}
			p.Parallelism = uint8(v)
		default:
			return ErrMalformedArtifact
		}
		seen++
	}

	if seen != 3 || p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return ErrMalformedArtifact
	}

	return nil
}
