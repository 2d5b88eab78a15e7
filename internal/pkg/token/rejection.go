package token

import "errors"

// Reason classifies why Decode rejected a token. It is for diagnostics only;
// callers treat every reason as unauthenticated.
type Reason int

const (
	// ReasonMalformed covers structural and payload decoding failures.
	ReasonMalformed Reason = iota + 1
	// ReasonSignature means the tag did not match the payload.
	ReasonSignature
	// ReasonExpired means the exp claim is in the past.
	ReasonExpired
)

// String returns the log representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonMalformed:
		return "malformed"
	case ReasonSignature:
		return "signature_mismatch"
	case ReasonExpired:
		return "expired"
	default:
		return "unknown"
	}
}

var (
	errSeparator     = errors.New("token must contain exactly one separator")
	errEmptySegment  = errors.New("token segment is empty")
	errPayload       = errors.New("payload is not a JSON object of string or integer claims")
	errMissingExpiry = errors.New("exp claim is missing")
)

// RejectionError is returned by Decode for every rejected token.
type RejectionError struct {
	Reason Reason
	cause  error
}

func reject(reason Reason, cause error) error {
	return &RejectionError{Reason: reason, cause: cause}
}

// Error keeps the message generic; the reason is exposed through the field.
func (e *RejectionError) Error() string {
	return "token rejected: " + e.Reason.String()
}

// Is makes every rejection match ErrUnauthenticated.
func (e *RejectionError) Is(target error) bool {
	return target == ErrUnauthenticated
}

// Unwrap returns the underlying cause.
func (e *RejectionError) Unwrap() error {
	return e.cause
}

// ReasonOf returns the rejection reason carried by err, if any.
func ReasonOf(err error) (Reason, bool) {
	var rej *RejectionError
	if !errors.As(err, &rej) {
		return 0, false
	}

	return rej.Reason, true
}
