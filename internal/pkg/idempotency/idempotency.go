package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrAlreadyInProgress means another request holds the key.
	ErrAlreadyInProgress = errors.New("operation already in progress")
	// ErrAlreadyCompleted means a request with the same key already succeeded.
	ErrAlreadyCompleted = errors.New("operation already completed")
	// ErrInvalidState means the stored marker is not recognised.
	ErrInvalidState = errors.New("invalid idempotency state")
	// ErrEmptyKey is returned for a blank idempotency key.
	ErrEmptyKey = errors.New("idempotency key is empty")
)

// State is the marker stored for an idempotency key.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

func (s State) String() string {
	return string(s)
}

// Idempotency runs an operation at most once per key.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

// Redis tracks idempotency keys in Redis. A failed operation releases its key
// so the client may retry with the same key.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// New returns a Redis backed tracker storing keys under "idempotency:".
func New(client redis.UniversalClient) *Redis {
	return &Redis{client: client, prefix: "idempotency:"}
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an in-flight operation holds the key.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) {
		o.lockDuration = d
	}
}

// WithStateTTL sets how long a completed marker is kept.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) {
		o.stateTTL = d
	}
}

// Acquire tries to start an operation. StateNone means the caller owns the key.
func (s *Redis) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
	if err != nil {
		return StateError, err
	}
	if acquired {
		return StateNone, nil
	}

	result, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Acquire(ctx, key, lockDuration)
	}
	if err != nil {
		return StateError, err
	}

	switch State(result) {
	case StateInProgress:
		return StateInProgress, nil
	case StateCompleted:
		return StateCompleted, nil
	default:
		return StateError, ErrInvalidState
	}
}

// MarkCompleted records success for key.
func (s *Redis) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), ttl).Err()
}

// Release forgets key.
func (s *Redis) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Exec runs fn once for key. Concurrent or repeated calls with a key that is
// in flight or already completed return ErrAlreadyInProgress or ErrAlreadyCompleted.
func (s *Redis) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	if key == "" {
		return ErrEmptyKey
	}

	execOpt := &execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(execOpt)
	}
	if execOpt.lockDuration <= 0 {
		execOpt.lockDuration = defaultLockDuration
	}
	if execOpt.stateTTL <= 0 {
		execOpt.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, execOpt.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, s.Release(context.WithoutCancel(ctx), key))
	}

	return s.MarkCompleted(ctx, key, execOpt.stateTTL)
}
