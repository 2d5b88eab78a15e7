package usecase

import (
	"context"
	"log/slog"
)

type LogoutInput struct {
	AccessToken string
}

type LogoutOutput struct {
	Redirect string
}

// Logout ends a browser session. Tokens are stateless, so nothing is revoked;
// the caller clears the cookie.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) (*LogoutOutput, error) {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	if in.AccessToken != "" {
		if clm, err := s.codec.Decode(in.AccessToken); err == nil {
			slog.InfoContext(ctx, "user logged out", "user_id", clm.Subject())
		}
	}

	return &LogoutOutput{Redirect: s.loginURL}, nil
}
