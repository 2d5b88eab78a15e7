package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/autocare/internal/identity/entity"
	"github.com/shandysiswandi/autocare/internal/pkg/goerror"
	"github.com/shandysiswandi/autocare/internal/pkg/idempotency"
)

type RegisterInput struct {
	Name           string `validate:"required,min=2,max=100"`
	Email          string `validate:"required,email,max=120"`
	Password       string `validate:"required,password"`
	IdempotencyKey string `validate:"omitempty,max=128"`
}

type RegisterOutput struct {
	ID    int64
	Name  string
	Email string
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.IdempotencyKey == "" || s.idemp == nil {
		return s.register(ctx, in)
	}

	var out *RegisterOutput
	err := s.idemp.Exec(ctx, "register:"+in.IdempotencyKey, func(ctx context.Context) error {
		var err error
		out, err = s.register(ctx, in)
		return err
	}, idempotency.WithStateTTL(s.idempotencyTTL))

	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.WarnContext(ctx, "registration already in progress", "email", in.Email)
		return nil, goerror.NewBusiness("Registration is already in progress", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		slog.WarnContext(ctx, "registration already completed", "email", in.Email)
		return nil, goerror.NewBusiness("Registration already processed", goerror.CodeConflict)
	}

	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		return nil, gerr
	}

	slog.ErrorContext(ctx, "failed to run idempotent registration", "email", in.Email, "error", err)
	return nil, goerror.NewServer(err)
}

func (s *Usecase) register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	_, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if err == nil {
		slog.WarnContext(ctx, "email already registered", "email", in.Email)
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	hashedPassword, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	newUser := entity.NewUser{
		ID:           s.uid.Generate(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
	}

	err = s.repoDB.CreateUser(ctx, newUser)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "email registered concurrently", "email", in.Email)
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", newUser.ID)

	return &RegisterOutput{ID: newUser.ID, Name: newUser.Name, Email: newUser.Email}, nil
}
