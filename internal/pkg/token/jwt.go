package token

import (
	"errors"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// JWT implements Codec as a compact HS256 JSON Web Token.
//
// golang-jwt verifies the signature and algorithm; expiry uses the same rule
// as the HMAC codec so both schemes accept a token through its exp second.
type JWT struct {
	settings
	parser *libJWT.Parser
}

// NewHS256 constructs the HS256 JWT codec.
func NewHS256(cfg Config) (*JWT, error) {
	s, err := newSettings(cfg)
	if err != nil {
		return nil, err
	}

	return &JWT{
		settings: s,
		parser: libJWT.NewParser(
			libJWT.WithValidMethods([]string{libJWT.SigningMethodHS256.Alg()}),
			libJWT.WithJSONNumber(),
			libJWT.WithStrictDecoding(),
			libJWT.WithoutClaimsValidation(),
		),
	}, nil
}

// Issue creates a signed JWT for claims.
func (s *JWT) Issue(claims Claims, ttl time.Duration) (string, error) {
	out, err := s.claimsWithExpiry(claims, ttl)
	if err != nil {
		return "", err
	}

	return libJWT.
		NewWithClaims(libJWT.SigningMethodHS256, libJWT.MapClaims(out)).
		SignedString(s.secret)
}

// Decode parses and validates a JWT string.
func (s *JWT) Decode(tokenStr string) (Claims, error) {
	now := s.clock.Now().Unix()

	token, err := s.parser.Parse(tokenStr, func(*libJWT.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, libJWT.ErrTokenSignatureInvalid) {
			return nil, reject(ReasonSignature, err)
		}
		return nil, reject(ReasonMalformed, err)
	}

	mc, ok := token.Claims.(libJWT.MapClaims)
	if !ok || !token.Valid {
		return nil, reject(ReasonMalformed, nil)
	}

	claims, err := claimsFromMap(mc)
	if err != nil {
		return nil, reject(ReasonMalformed, err)
	}

	if err := checkExpiry(claims, now); err != nil {
		return nil, err
	}

	return claims, nil
}
