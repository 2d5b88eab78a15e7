package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestSnowflake_Generate(t *testing.T) {
	gen, err := NewSnowflake()
	if err != nil {
		t.Fatalf("NewSnowflake error: %v", err)
	}

	seen := make(map[int64]struct{}, 1000)
	prev := int64(0)
	for range 1000 {
		id := gen.Generate()
		if id <= prev {
			t.Fatalf("ids not increasing: %d after %d", id, prev)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
		prev = id
	}
}

func TestNewSnowflakeNode_OutOfRange(t *testing.T) {
	if _, err := NewSnowflakeNode(-1); err == nil {
		t.Fatal("expected error for negative node")
	}
}

func TestUUID_Generate(t *testing.T) {
	id, err := uuid.Parse(NewUUID().Generate())
	if err != nil {
		t.Fatalf("generated id is not a UUID: %v", err)
	}
	if id.Version() != 7 {
		t.Fatalf("version = %d, want 7", id.Version())
	}
}
