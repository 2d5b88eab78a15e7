package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/autocare/internal/pkg/goerror"
)

type PasswordChangeInput struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,password,nefield=CurrentPassword"`
}

func (s *Usecase) PasswordChange(ctx context.Context, in PasswordChangeInput) error {
	ctx, span := s.startSpan(ctx, "PasswordChange")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	userID, err := s.authenticatedUserID(ctx)
	if err != nil {
		return err
	}

	cred, err := s.repoDB.GetUserCredentialByID(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", userID)
		return goerror.NewUnauthorized("Authentication required")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user credential by id", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	if !s.password.Verify(cred.PasswordHash, in.CurrentPassword) {
		slog.WarnContext(ctx, "current password mismatch", "user_id", cred.ID)
		return goerror.NewUnauthorized("invalid password")
	}

	newHash, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", cred.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateUserPassword(ctx, cred.ID, string(newHash)); err != nil {
		slog.ErrorContext(ctx, "failed to update user password", "user_id", cred.ID, "error", err)
		return goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "user password changed", "user_id", cred.ID)

	return nil
}
