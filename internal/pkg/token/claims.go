package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
	"unicode/utf8"
)

// Registered claim names.
const (
	ClaimSubject   = "sub"
	ClaimEmail     = "email"
	ClaimExpiresAt = "exp"
)

// Claims is a set of named string or int64 values.
type Claims map[string]any

// Clone returns a shallow copy; values are immutable strings and integers.
func (c Claims) Clone() Claims {
	out := make(Claims, len(c))
	for k, v := range c {
		out[k] = v
	}

	return out
}

// String returns the string claim named key.
func (c Claims) String(key string) (string, bool) {
	v, ok := c[key].(string)
	return v, ok
}

// Int returns the integer claim named key.
func (c Claims) Int(key string) (int64, bool) {
	v, ok := c[key].(int64)
	return v, ok
}

// Subject returns the "sub" claim. Integer subjects are formatted in base 10.
func (c Claims) Subject() string {
	if s, ok := c.String(ClaimSubject); ok {
		return s
	}
	if n, ok := c.Int(ClaimSubject); ok {
		return strconv.FormatInt(n, 10)
	}

	return ""
}

// Email returns the "email" claim.
func (c Claims) Email() string {
	s, _ := c.String(ClaimEmail)
	return s
}

// ExpiresAt returns the "exp" claim as a time.
func (c Claims) ExpiresAt() (time.Time, bool) {
	exp, ok := c.Int(ClaimExpiresAt)
	if !ok {
		return time.Time{}, false
	}

	return time.Unix(exp, 0), true
}

// normalize copies c, converting every integer kind to int64.
// Keys and string values must be valid UTF-8 so the payload round-trips unchanged.
func (c Claims) normalize() (Claims, error) {
	out := make(Claims, len(c)+1)
	for k, v := range c {
		if !utf8.ValidString(k) {
			return nil, fmt.Errorf("%w: key %q is not valid UTF-8", ErrUnsupportedClaim, k)
		}
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q has type %T", ErrUnsupportedClaim, k, v)
		}
		out[k] = nv
	}

	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch n := v.(type) {
	case string:
		if !utf8.ValidString(n) {
			return nil, ErrUnsupportedClaim
		}
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return uintToInt64(uint64(n))
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return uintToInt64(n)
	case json.Number:
		return n.Int64()
	default:
		return nil, ErrUnsupportedClaim
	}
}

func uintToInt64(n uint64) (any, error) {
	if n > math.MaxInt64 {
		return nil, ErrUnsupportedClaim
	}

	return int64(n), nil
}

// parseClaims decodes a JSON object whose values are strings or integers.
func parseClaims(raw []byte) (Claims, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil, errPayload
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errPayload
	}

	return claimsFromMap(m)
}

func claimsFromMap(m map[string]any) (Claims, error) {
	out := make(Claims, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			out[k] = val
		case json.Number:
			n, err := val.Int64()
			if err != nil {
				return nil, errPayload
			}
			out[k] = n
		default:
			return nil, errPayload
		}
	}

	return out, nil
}

// checkExpiry accepts the token through the exact second named by exp.
func checkExpiry(c Claims, now int64) error {
	exp, ok := c.Int(ClaimExpiresAt)
	if !ok {
		return reject(ReasonMalformed, errMissingExpiry)
	}
	if now > exp {
		return reject(ReasonExpired, nil)
	}

	return nil
}
