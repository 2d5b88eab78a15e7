package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestManager(t *testing.T) {
	t.Run("CollectsErrors", func(t *testing.T) {
		// Arrange
		g := NewManager(4)
		boom := errors.New("boom")
		var ran atomic.Int32

		// Act
		for _, fail := range []bool{false, true, false} {
			if err := g.Go(context.Background(), "task", func(context.Context) error {
				ran.Add(1)
				if fail {
					return boom
				}
				return nil
			}); err != nil {
				t.Fatalf("Go() error = %v", err)
			}
		}
		err := g.Wait()

		// Assert
		if ran.Load() != 3 {
			t.Fatalf("ran = %d, want 3", ran.Load())
		}
		if !errors.Is(err, boom) {
			t.Fatalf("Wait() error = %v, want boom", err)
		}
	})

	t.Run("RecoversPanic", func(t *testing.T) {
		g := NewManager(1)

		_ = g.Go(context.Background(), "panicky", func(context.Context) error { panic("oops") })

		if err := g.Wait(); !errors.Is(err, ErrPanic) {
			t.Fatalf("Wait() error = %v, want ErrPanic", err)
		}
	})

	t.Run("LimitReached", func(t *testing.T) {
		g := NewManager(1)
		release := make(chan struct{})
		started := make(chan struct{})

		_ = g.Go(context.Background(), "blocker", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
		<-started

		err := g.Go(context.Background(), "extra", func(context.Context) error { return nil })
		close(release)

		if !errors.Is(err, ErrLimitReached) {
			t.Fatalf("Go() error = %v, want ErrLimitReached", err)
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	})

	t.Run("ClosedAfterWait", func(t *testing.T) {
		g := NewManager(1)
		_ = g.Wait()

		if err := g.Go(context.Background(), "late", func(context.Context) error { return nil }); !errors.Is(err, ErrClosed) {
			t.Fatalf("Go() error = %v, want ErrClosed", err)
		}
	})

	t.Run("SkipsCanceledContext", func(t *testing.T) {
		g := NewManager(1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var ran atomic.Bool

		_ = g.Go(ctx, "canceled", func(context.Context) error { ran.Store(true); return nil })

		if err := g.Wait(); err != nil || ran.Load() {
			t.Fatalf("Wait() error = %v, ran = %v", err, ran.Load())
		}
	})
}
