package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/autocare/internal/pkg/clock"
	"github.com/shandysiswandi/autocare/internal/pkg/config"
	"github.com/shandysiswandi/autocare/internal/pkg/goerror"
	"github.com/shandysiswandi/autocare/internal/pkg/token"
	"github.com/shandysiswandi/autocare/internal/pkg/validator"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

type testEnv struct {
	router *Router
	codec  token.Codec
	clock  *clock.Manual
}

func newTestEnv(t *testing.T, yaml string) *testEnv {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: test\n"+yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	clk := clock.NewManual(time.Unix(1_700_000_000, 0))
	codec, err := token.NewHMAC(token.Config{Secret: []byte("router-secret"), Clock: clk})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}

	return &testEnv{
		router: NewRouter(Config{Config: cfg, UUID: staticID("generated-cid"), Codec: codec}),
		codec:  codec,
		clock:  clk,
	}
}

func (e *testEnv) issue(t *testing.T, ttl time.Duration) string {
	t.Helper()

	tok, err := e.codec.Issue(token.Claims{"sub": "42", "email": "a@b.com"}, ttl)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func serve(h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

type subjectResponse struct {
	Subject string `json:"subject"`
}

func whoAmI(r *Request) (any, error) {
	return subjectResponse{Subject: token.GetAuth(r.Context()).Subject()}, nil
}

func TestRouter_Authentication(t *testing.T) {
	env := newTestEnv(t, "")
	env.router.GET("/me", whoAmI)
	env.router.GET("/open", func(*Request) (any, error) { return map[string]string{}, nil }, Public())

	valid := env.issue(t, time.Minute)
	expired := env.issue(t, time.Second)

	tamper := []byte(valid)
	tamper[0] ^= 1

	tests := []struct {
		name       string
		path       string
		setup      func(r *http.Request)
		wantStatus int
		wantMsg    string
	}{
		{name: "PublicNoToken", path: "/open", wantStatus: http.StatusOK},
		{name: "MissingToken", path: "/me", wantStatus: http.StatusUnauthorized, wantMsg: "Authentication required"},
		{
			name:       "BearerValid",
			path:       "/me",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "CookieValid",
			path:       "/me",
			setup:      func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: valid}) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "Tampered",
			path:       "/me",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+string(tamper)) },
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid or expired token",
		},
		{
			name: "Expired",
			path: "/me",
			setup: func(r *http.Request) {
				env.clock.Advance(2 * time.Second)
				r.Header.Set("Authorization", "Bearer "+expired)
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid or expired token",
		},
		{
			name:       "Malformed",
			path:       "/me",
			setup:      func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: "a.b.c"}) },
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid or expired token",
		},
		{
			name:       "WrongScheme",
			path:       "/me",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Basic "+valid) },
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authentication required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.setup != nil {
				tt.setup(req)
			}

			// Act
			rec, body := serve(env.router, req)

			// Assert
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantMsg != "" && body.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", body.Message, tt.wantMsg)
			}
			if tt.wantStatus == http.StatusOK && tt.path == "/me" {
				var out subjectResponse
				if err := json.Unmarshal(body.Data, &out); err != nil || out.Subject != "42" {
					t.Fatalf("subject = %q (%v)", out.Subject, err)
				}
			}
		})
	}
}

type cookieRedirect struct {
	location string
}

func (c cookieRedirect) Cookies() []*http.Cookie {
	return []*http.Cookie{{Name: CookieAccessToken, Value: "", MaxAge: -1, Path: "/"}}
}

func (c cookieRedirect) Location() string { return c.location }

func TestRouter_ResponseCodec(t *testing.T) {
	env := newTestEnv(t, "")
	env.router.GET("/business", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}, Public())
	env.router.GET("/validation", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(validator.V10ValidationError{"email": "email is required"})
	}, Public())
	env.router.GET("/untyped", func(*Request) (any, error) {
		return nil, errors.New("boom")
	}, Public())
	env.router.GET("/panic", func(*Request) (any, error) {
		panic("kaboom")
	}, Public())
	env.router.GET("/redirect", func(*Request) (any, error) {
		return cookieRedirect{location: "/ui/login"}, nil
	}, Public())
	env.router.POST("/cookie-json", func(*Request) (any, error) {
		return cookieRedirect{}, nil
	}, Public())

	t.Run("Business", func(t *testing.T) {
		rec, body := serve(env.router, httptest.NewRequest(http.MethodGet, "/business", nil))
		if rec.Code != http.StatusConflict || body.Message != "Email already registered" {
			t.Fatalf("got %d %q", rec.Code, body.Message)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		rec, body := serve(env.router, httptest.NewRequest(http.MethodGet, "/validation", nil))
		if rec.Code != http.StatusUnprocessableEntity || body.Error["email"] != "email is required" {
			t.Fatalf("got %d %v", rec.Code, body.Error)
		}
	})

	t.Run("Untyped", func(t *testing.T) {
		rec, body := serve(env.router, httptest.NewRequest(http.MethodGet, "/untyped", nil))
		if rec.Code != http.StatusInternalServerError || body.Message != "Internal server error" {
			t.Fatalf("got %d %q", rec.Code, body.Message)
		}
	})

	t.Run("Panic", func(t *testing.T) {
		rec, _ := serve(env.router, httptest.NewRequest(http.MethodGet, "/panic", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("RedirectWithCookie", func(t *testing.T) {
		rec, _ := serve(env.router, httptest.NewRequest(http.MethodGet, "/redirect", nil))
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/ui/login" {
			t.Fatalf("got %d location=%q", rec.Code, rec.Header().Get("Location"))
		}
		if !strings.Contains(rec.Header().Get("Set-Cookie"), CookieAccessToken+"=;") {
			t.Fatalf("cookie not cleared: %q", rec.Header().Get("Set-Cookie"))
		}
	})

	t.Run("CookieWithJSON", func(t *testing.T) {
		rec, _ := serve(env.router, httptest.NewRequest(http.MethodPost, "/cookie-json", nil))
		if rec.Code != http.StatusOK || rec.Header().Get("Set-Cookie") == "" {
			t.Fatalf("got %d cookie=%q", rec.Code, rec.Header().Get("Set-Cookie"))
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		rec, body := serve(env.router, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if rec.Code != http.StatusNotFound || body.Message != "endpoint not found" {
			t.Fatalf("got %d %q", rec.Code, body.Message)
		}
	})

	t.Run("Health", func(t *testing.T) {
		rec, _ := serve(env.router, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestRouter_CorrelationID(t *testing.T) {
	env := newTestEnv(t, "")

	t.Run("Generated", func(t *testing.T) {
		rec, _ := serve(env.router, httptest.NewRequest(http.MethodGet, "/health", nil))
		if got := rec.Header().Get(HeaderCorrelationID); got != "generated-cid" {
			t.Fatalf("correlation id = %q", got)
		}
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(HeaderRequestID, "upstream-id")

		rec, _ := serve(env.router, req)
		if got := rec.Header().Get(HeaderCorrelationID); got != "upstream-id" {
			t.Fatalf("correlation id = %q", got)
		}
	})
}

func TestRouter_Maintenance(t *testing.T) {
	env := newTestEnv(t, "  maintenance:\n    endpoints: /health\n")

	rec, body := serve(env.router, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable || body.Message != "service is under maintenance" {
		t.Fatalf("got %d %q", rec.Code, body.Message)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }), mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "a,b,h" {
		t.Fatalf("order = %v", order)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := clientIP(req, false); got != "10.0.0.1" {
		t.Fatalf("untrusted clientIP = %q", got)
	}
	if got := clientIP(req, true); got != "203.0.113.9" {
		t.Fatalf("trusted clientIP = %q", got)
	}
}
