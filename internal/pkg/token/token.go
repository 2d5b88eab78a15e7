package token

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/shandysiswandi/autocare/internal/pkg/clock"
)

// DefaultTTL is used when Config.TTL is not positive.
const DefaultTTL = 24 * time.Hour

// Supported codec schemes.
const (
	SchemeHMAC = "hmac"
	SchemeJWT  = "jwt"
)

var (
	// ErrSecretRequired is returned when the signing secret is empty.
	ErrSecretRequired = errors.New("token signing secret is required")

	// ErrUnsupportedClaim is returned when a claim value is neither a string nor an integer.
	ErrUnsupportedClaim = errors.New("claim value must be a string or an integer")

	// ErrUnknownScheme is returned by NewFromScheme for an unsupported scheme.
	ErrUnknownScheme = errors.New("unknown token scheme")

	// ErrUnauthenticated is matched by every rejection returned from Decode.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Codec issues and decodes bearer tokens.
type Codec interface {
	// Issue signs claims with an "exp" of now+ttl. A non-positive ttl uses the configured default.
	Issue(claims Claims, ttl time.Duration) (string, error)
	// Decode verifies a token and returns its claims, or an error matching ErrUnauthenticated.
	Decode(token string) (Claims, error)
}

// Config defines the inputs for building a Codec.
type Config struct {
	// Secret is the HMAC signing key. It is copied at construction.
	Secret []byte
	// TTL is the default token time-to-live.
	TTL time.Duration
	// Clock provides the current time source.
	Clock clock.Clocker
}

type settings struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clocker
}

func newSettings(cfg Config) (settings, error) {
	if len(cfg.Secret) == 0 {
		return settings{}, ErrSecretRequired
	}

	s := settings{
		secret: bytes.Clone(cfg.Secret),
		ttl:    cfg.TTL,
		clock:  cfg.Clock,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.clock == nil {
		s.clock = clock.New()
	}

	return s, nil
}

// claimsWithExpiry validates claims and returns a copy carrying exp = now + ttl.
func (s settings) claimsWithExpiry(claims Claims, ttl time.Duration) (Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrSecretRequired
	}

	if _, ok := claims[ClaimExpiresAt]; ok {
		claims = maps.Clone(claims)
		delete(claims, ClaimExpiresAt)
	}

	out, err := claims.normalize()
	if err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = s.ttl
	}
	out[ClaimExpiresAt] = s.clock.Now().Add(ttl).Unix()

	return out, nil
}

// NewFromScheme builds the codec named by scheme. An empty scheme selects SchemeHMAC.
func NewFromScheme(scheme string, cfg Config) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case SchemeHMAC, "":
		return NewHMAC(cfg)
	case SchemeJWT:
		return NewHS256(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

type authContextKey struct{}

// GetAuth returns the claims stored in the context, if any.
func GetAuth(ctx context.Context) Claims {
	clm, ok := ctx.Value(authContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return clm
}

// SetAuth stores claims in the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authContextKey{}, clm)
}
