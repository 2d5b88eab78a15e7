package hash

import "errors"

// MaxPasswordBytes bounds plaintext length. It matches the bcrypt input limit
// and keeps argon2 work per request bounded as well.
const MaxPasswordBytes = 72

var (
	// ErrEmptyPassword is returned when hashing an empty plaintext.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrPasswordTooLong is returned when the plaintext exceeds MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password must not exceed 72 bytes")

	// ErrUnknownScheme is returned when an artifact is not produced by any supported scheme.
	ErrUnknownScheme = errors.New("unknown password hash scheme")

	// ErrMalformedArtifact is returned when an artifact names a known scheme but cannot be parsed.
	ErrMalformedArtifact = errors.New("malformed password hash")

	// ErrNotAdaptive is returned when a non-adaptive scheme is configured for new hashes.
	ErrNotAdaptive = errors.New("scheme cannot be used for new password hashes")
)

// Hash defines the minimal operations needed by the app: hash and verify a secret.
type Hash interface {
	// Hash returns a self-describing artifact for plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the stored artifact. It never fails;
	// malformed artifacts simply do not match.
	Verify(hashed, plaintext string) bool
}

func checkPlaintext(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	return nil
}
