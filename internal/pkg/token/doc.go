// Package token issues and verifies stateless session bearer tokens.
//
// It includes:
//   - A Claims map restricted to string and integer values, always carrying "exp".
//   - The HMAC codec: base64url(json(claims)) "." hex(HMAC-SHA256(secret, payload)).
//   - The JWT codec: compact HS256 JWS built on golang-jwt.
//   - Context helpers for storing and retrieving authenticated claims.
//
// Both codecs satisfy Codec and are chosen by configuration through
// NewFromScheme. Every rejected token yields an error matching
// ErrUnauthenticated; the concrete Reason is kept for logging only.
package token
