package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// separator is absent from both the base64url and hex alphabets.
const separator = "."

// HMAC implements Codec with a base64url JSON payload and a hex HMAC-SHA256 tag.
type HMAC struct {
	settings
}

// NewHMAC constructs the HMAC codec.
func NewHMAC(cfg Config) (*HMAC, error) {
	s, err := newSettings(cfg)
	if err != nil {
		return nil, err
	}

	return &HMAC{settings: s}, nil
}

// Issue creates a signed token for claims. Keys are serialized in lexicographic
// order so equal claim sets produce equal payloads.
func (h *HMAC) Issue(claims Claims, ttl time.Duration) (string, error) {
	out, err := h.claimsWithExpiry(claims, ttl)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return "", err
	}

	segment := base64.RawURLEncoding.EncodeToString(payload)

	return segment + separator + h.sign(segment), nil
}

// Decode verifies structure, tag, payload and expiry, in that order.
func (h *HMAC) Decode(tokenStr string) (Claims, error) {
	now := h.clock.Now().Unix()

	if strings.Count(tokenStr, separator) != 1 {
		return nil, reject(ReasonMalformed, errSeparator)
	}

	segment, tag, _ := strings.Cut(tokenStr, separator)
	if segment == "" || tag == "" {
		return nil, reject(ReasonMalformed, errEmptySegment)
	}

	if subtle.ConstantTimeCompare([]byte(h.sign(segment)), []byte(tag)) != 1 {
		return nil, reject(ReasonSignature, nil)
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(segment, "="))
	if err != nil {
		return nil, reject(ReasonMalformed, err)
	}

	claims, err := parseClaims(payload)
	if err != nil {
		return nil, reject(ReasonMalformed, err)
	}

	if err := checkExpiry(claims, now); err != nil {
		return nil, err
	}

	return claims, nil
}

func (h *HMAC) sign(segment string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(segment))

	return hex.EncodeToString(mac.Sum(nil))
}
