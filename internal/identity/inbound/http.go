package inbound

import (
	"context"

	"github.com/shandysiswandi/autocare/internal/identity/usecase"
	"github.com/shandysiswandi/autocare/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) (*usecase.LogoutOutput, error)

	Profile(ctx context.Context) (*usecase.ProfileOutput, error)
	PasswordChange(ctx context.Context, in usecase.PasswordChangeInput) error
}

// Options tunes how the session cookie is written.
type Options struct {
	CookieSecure bool
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, opts Options) {
	end := &HTTPEndpoint{uc: uc, cookieSecure: opts.CookieSecure}

	// Authentication
	r.POST("/api/v1/identity/register", end.Register, router.Public())
	r.POST("/api/v1/identity/login", end.Login, router.Public())
	r.POST("/api/v1/identity/logout", end.Logout, router.Public())
	r.GET("/api/v1/identity/logout", end.LogoutRedirect, router.Public())

	// Profile (need authenticated)
	r.GET("/api/v1/identity/profile", end.Profile)
	r.POST("/api/v1/identity/password/change", end.PasswordChange)
}
