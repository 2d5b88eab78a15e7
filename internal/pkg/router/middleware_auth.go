package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/shandysiswandi/autocare/internal/pkg/token"
)

// CookieAccessToken is the cookie carrying the session token for browser clients.
const CookieAccessToken = "access_token"

type publicEndpoints map[string]map[string]struct{}

func (p publicEndpoints) add(method, path string) {
	if p[method] == nil {
		p[method] = make(map[string]struct{})
	}
	p[method][path] = struct{}{}
}

func (p publicEndpoints) has(method, path string) bool {
	_, ok := p[method][path]
	return ok
}

// SessionToken reads a bearer token first, then the session cookie.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		p := strings.Fields(h)
		if len(p) == 2 && strings.EqualFold(p[0], "Bearer") {
			return p[1]
		}
		return ""
	}

	if c, err := r.Cookie(CookieAccessToken); err == nil {
		return c.Value
	}

	return ""
}

func middlewareAuthentication(codec token.Codec, public publicEndpoints) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := matchedRoutePath(r)
			if public.has(r.Method, path) {
				next.ServeHTTP(w, r)
				return
			}

			tok := SessionToken(r)
			if tok == "" || codec == nil {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := codec.Decode(tok)
			if err != nil {
				reason, _ := token.ReasonOf(err)
				slog.WarnContext(r.Context(), "session token rejected", "reason", reason.String(), "path", path)
				writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(token.SetAuth(r.Context(), claims)))
		})
	}
}
