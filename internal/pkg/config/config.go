package config

import (
	"io"
	"time"
)

// DurationConfig defines helpers for retrieving unit-scaled durations.
type DurationConfig interface {
	// GetSecond retrieves the integer value of key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the integer value of key as a number of minutes.
	GetMinute(key string) time.Duration
}

// Config defines the read-only view of application settings.
//
// Values are loaded once at start. Components copy what they need at
// construction; nothing re-reads configuration while serving requests.
type Config interface {
	io.Closer
	DurationConfig

	// IsSet reports whether key has a value from the file, the environment or a default.
	IsSet(key string) bool

	// GetBool retrieves the value of key as a bool.
	GetBool(key string) bool

	// GetInt retrieves the value of key as an int.
	GetInt(key string) int

	// GetInt64 retrieves the value of key as an int64.
	GetInt64(key string) int64

	// GetUint32 retrieves the value of key as a uint32.
	GetUint32(key string) uint32

	// GetFloat64 retrieves the value of key as a float64.
	GetFloat64(key string) float64

	// GetString retrieves the value of key as a string.
	GetString(key string) string

	// GetBinary retrieves the value of key as bytes. The value is stored base64 encoded.
	GetBinary(key string) []byte

	// GetArray retrieves the value of key split on commas, skipping blank elements.
	GetArray(key string) []string
}
