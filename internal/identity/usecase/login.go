package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/autocare/internal/pkg/goerror"
	"github.com/shandysiswandi/autocare/internal/pkg/hash"
	"github.com/shandysiswandi/autocare/internal/pkg/token"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	AccessToken string
	ExpiresIn   time.Duration
	Redirect    string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	cred, err := s.repoDB.GetUserCredentialByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		s.password.Verify(s.dummyHash, in.Password)
		slog.WarnContext(ctx, "user account not found", "email", in.Email)
		return nil, goerror.NewUnauthorized("invalid email or password")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user credential by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.password.Verify(cred.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", cred.ID)
		return nil, goerror.NewUnauthorized("invalid email or password")
	}

	if scheme := s.password.Identify(cred.PasswordHash); scheme == hash.SchemeLegacySHA256 {
		slog.WarnContext(ctx, "user password still stored with a legacy scheme", "user_id", cred.ID, "scheme", scheme.String())
	}

	accessToken, err := s.codec.Issue(token.Claims{
		token.ClaimSubject: strconv.FormatInt(cred.ID, 10),
		token.ClaimEmail:   cred.Email,
	}, s.tokenTTL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue access token", "user_id", cred.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.tokenTTL
	if ttl <= 0 {
		ttl = token.DefaultTTL
	}

	return &LoginOutput{
		AccessToken: accessToken,
		ExpiresIn:   ttl,
		Redirect:    s.redirectURL,
	}, nil
}
