package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shandysiswandi/autocare/internal/pkg/config"
	"github.com/shandysiswandi/autocare/internal/pkg/token"
)

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		" error ": slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := logLevel(in); got != want {
			t.Errorf("logLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPingWithRetry(t *testing.T) {
	t.Run("RecoversAfterFailures", func(t *testing.T) {
		// Arrange
		calls := 0
		ping := func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("not ready")
			}
			return nil
		}

		// Act
		err := pingWithRetry(context.Background(), "test", 5, ping)

		// Assert
		if err != nil {
			t.Fatalf("pingWithRetry() error = %v", err)
		}
		if calls != 3 {
			t.Fatalf("calls = %d, want 3", calls)
		}
	})

	t.Run("GivesUp", func(t *testing.T) {
		down := errors.New("down")
		calls := 0

		err := pingWithRetry(context.Background(), "test", 1, func(context.Context) error {
			calls++
			return down
		})

		if !errors.Is(err, down) {
			t.Fatalf("pingWithRetry() error = %v, want down", err)
		}
		if calls != 2 {
			t.Fatalf("calls = %d, want 2", calls)
		}
	})
}

func TestWithCORS(t *testing.T) {
	h := withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), []string{"http://app.test"})

	t.Run("AllowedOrigin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://app.test")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://app.test" {
			t.Fatalf("Allow-Origin = %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Fatalf("Allow-Credentials = %q", got)
		}
	})

	t.Run("OtherOrigin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.test")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("Allow-Origin = %q, want empty", got)
		}
	})
}

func TestInitLibrariesAndToken(t *testing.T) {
	// Arrange
	cfg, err := config.NewViperFromBytes("yaml", []byte(`
hash:
  scheme: bcrypt
  bcrypt_cost: 4
token:
  scheme: hmac
  secret: app-test-secret
  ttl_minutes: 5
`))
	if err != nil {
		t.Fatalf("NewViperFromBytes error: %v", err)
	}
	a := &App{ctx: context.Background(), config: cfg}

	// Act
	a.initLibraries()
	a.initToken()

	// Assert
	if a.validator == nil || a.password == nil || a.uid == nil || a.codec == nil {
		t.Fatalf("libraries not initialised: validator=%v password=%v uid=%v codec=%v", a.validator, a.password, a.uid, a.codec)
	}

	type signup struct {
		Name     string `validate:"required,alphaspace"`
		Password string `validate:"required,password"`
	}
	if err := a.validator.Validate(signup{Name: "Ana Souza", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if err := a.validator.Validate(signup{Name: "Ana", Password: "short"}); err == nil {
		t.Fatal("expected short password to be rejected")
	}

	hashed, err := a.password.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !a.password.Verify(string(hashed), "s3cret-pass") {
		t.Fatal("Verify rejected the hashed password")
	}

	tok, err := a.codec.Issue(token.Claims{token.ClaimSubject: "42"}, time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	claims, err := a.codec.Decode(tok)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if claims.Subject() != "42" {
		t.Fatalf("subject = %q, want 42", claims.Subject())
	}
}
