package hash

import (
	"crypto/subtle"
	"strings"
)

// Scheme identifies the algorithm that produced a stored artifact.
type Scheme int

const (
	// SchemeUnknown is the zero value; artifacts never parse to it successfully.
	SchemeUnknown Scheme = iota
	// SchemeBcrypt is the adaptive bcrypt scheme ($2a$, $2b$, $2y$).
	SchemeBcrypt
	// SchemeArgon2id is the adaptive argon2id scheme in PHC string format.
	SchemeArgon2id
	// SchemeLegacySHA256 is the unsalted SHA-256 hex digest kept only for old rows.
	SchemeLegacySHA256
)

// String returns the configuration name of the scheme.
func (s Scheme) String() string {
	switch s {
	case SchemeBcrypt:
		return "bcrypt"
	case SchemeArgon2id:
		return "argon2id"
	case SchemeLegacySHA256:
		return "legacy_sha256"
	default:
		return "unknown"
	}
}

// Adaptive reports whether the scheme may be used for new hashes.
func (s Scheme) Adaptive() bool {
	return s == SchemeBcrypt || s == SchemeArgon2id
}

// SchemeFromString maps a configuration value to a Scheme.
func SchemeFromString(s string) Scheme {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bcrypt", "":
		return SchemeBcrypt
	case "argon2id":
		return SchemeArgon2id
	case "legacy_sha256", "sha256":
		return SchemeLegacySHA256
	default:
		return SchemeUnknown
	}
}

// Artifact is a parsed password hash. Exactly one payload matches Scheme.
type Artifact struct {
	Scheme   Scheme
	Bcrypt   *BcryptPayload
	Argon2id *Argon2idPayload
	Legacy   *LegacyPayload
}

// Parse decodes a stored artifact into its tagged form.
func Parse(hashed string) (Artifact, error) {
	switch {
	case strings.HasPrefix(hashed, argon2idPrefix):
		p, err := parseArgon2id(hashed)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Scheme: SchemeArgon2id, Argon2id: p}, nil

	case strings.HasPrefix(hashed, bcryptPrefix):
		p, err := parseBcrypt(hashed)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Scheme: SchemeBcrypt, Bcrypt: p}, nil

	case len(hashed) == legacyHexLen:
		p, err := parseLegacy(hashed)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Scheme: SchemeLegacySHA256, Legacy: p}, nil

	default:
		return Artifact{}, ErrUnknownScheme
	}
}

// Matches reports whether plaintext produces the digest held by the artifact.
func (a Artifact) Matches(plaintext string) bool {
	if checkPlaintext(plaintext) != nil {
		return false
	}

	switch a.Scheme {
	case SchemeBcrypt:
		return a.Bcrypt != nil && a.Bcrypt.matches(plaintext)
	case SchemeArgon2id:
		return a.Argon2id != nil && a.Argon2id.matches(plaintext)
	case SchemeLegacySHA256:
		return a.Legacy != nil && a.Legacy.matches(plaintext)
	case SchemeUnknown:
		return false
	default:
		return false
	}
}

func constantTimeEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
