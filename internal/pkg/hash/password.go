package hash

import "fmt"

// Config selects the adaptive scheme used for new hashes and its parameters.
type Config struct {
	// Scheme is the scheme used by Hash. It must be adaptive.
	Scheme Scheme
	// BcryptCost is the bcrypt work factor.
	BcryptCost int
	// Argon2id holds argon2id parameters.
	Argon2id Argon2idConfig
}

// Password hashes new passwords with one adaptive scheme and verifies
// artifacts produced by any supported scheme.
type Password struct {
	scheme   Scheme
	bcrypt   *Bcrypt
	argon2id *Argon2id
}

// NewPassword builds a Password hasher.
func NewPassword(cfg Config) (*Password, error) {
	if !cfg.Scheme.Adaptive() {
		return nil, fmt.Errorf("%w: %s", ErrNotAdaptive, cfg.Scheme)
	}

	return &Password{
		scheme:   cfg.Scheme,
		bcrypt:   NewBcrypt(cfg.BcryptCost),
		argon2id: NewArgon2id(cfg.Argon2id),
	}, nil
}

// Scheme returns the scheme used for new hashes.
func (p *Password) Scheme() Scheme {
	return p.scheme
}

// Hash returns a new artifact for plaintext using the configured adaptive scheme.
func (p *Password) Hash(plaintext string) ([]byte, error) {
	switch p.scheme {
	case SchemeArgon2id:
		return p.argon2id.Hash(plaintext)
	case SchemeBcrypt:
		return p.bcrypt.Hash(plaintext)
	default:
		return nil, ErrNotAdaptive
	}
}

// Verify reports whether plaintext matches hashed, whichever supported scheme
// produced it. Any parse failure is a mismatch.
func (p *Password) Verify(hashed, plaintext string) bool {
	a, err := Parse(hashed)
	if err != nil {
		return false
	}

	return a.Matches(plaintext)
}

// Identify returns the scheme that produced hashed, or SchemeUnknown.
func (p *Password) Identify(hashed string) Scheme {
	a, err := Parse(hashed)
	if err != nil {
		return SchemeUnknown
	}

	return a.Scheme
}
