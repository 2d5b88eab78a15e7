package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/autocare/internal/identity/entity"
	"github.com/shandysiswandi/autocare/internal/pkg/config"
	"github.com/shandysiswandi/autocare/internal/pkg/goerror"
	"github.com/shandysiswandi/autocare/internal/pkg/hash"
	"github.com/shandysiswandi/autocare/internal/pkg/idempotency"
	"github.com/shandysiswandi/autocare/internal/pkg/instrument"
	"github.com/shandysiswandi/autocare/internal/pkg/token"
	"github.com/shandysiswandi/autocare/internal/pkg/uid"
	"github.com/shandysiswandi/autocare/internal/pkg/validator"
)

type repoDB interface {
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserCredentialByID(ctx context.Context, id int64) (*entity.UserCredential, error)
	GetUserCredentialByEmail(ctx context.Context, email string) (*entity.UserCredential, error)

	CreateUser(ctx context.Context, in entity.NewUser) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

type passwordHasher interface {
	hash.Hash
	Identify(hashed string) hash.Scheme
}

type Usecase struct {
	repoDB    repoDB
	idemp     idempotency.Idempotency
	validator validator.Validator
	password  passwordHasher
	uid       uid.NumberID
	codec     token.Codec
	ins       instrument.Instrumentation

	// dummyHash is verified when the email is unknown so both login failures cost one hash.
	dummyHash string

	tokenTTL       time.Duration
	idempotencyTTL time.Duration
	loginURL       string
	redirectURL    string
}

type Dependency struct {
	RepoDB      repoDB
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	Password    passwordHasher
	UID         uid.NumberID
	Codec       token.Codec
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	dummy, err := dep.Password.Hash("autocare-unknown-account")
	if err != nil {
		slog.Warn("failed to hash dummy login password", "error", err)
	}

	return &Usecase{
		repoDB:         dep.RepoDB,
		idemp:          dep.Idempotency,
		validator:      dep.Validator,
		password:       dep.Password,
		uid:            dep.UID,
		codec:          dep.Codec,
		ins:            dep.Instrument,
		dummyHash:      string(dummy),
		tokenTTL:       dep.Config.GetMinute("token.ttl_minutes"),
		idempotencyTTL: dep.Config.GetSecond("idempotency.ttl_second"),
		loginURL:       dep.Config.GetString("app.login_url"),
		redirectURL:    dep.Config.GetString("app.redirect_url"),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

// authenticatedUserID reads the numeric subject placed in the context by the
// authentication middleware.
func (s *Usecase) authenticatedUserID(ctx context.Context) (int64, error) {
	clm := token.GetAuth(ctx)
	if clm == nil {
		return 0, goerror.NewUnauthorized("Authentication required")
	}

	id, err := strconv.ParseInt(clm.Subject(), 10, 64)
	if err != nil || id <= 0 {
		slog.WarnContext(ctx, "session token subject is not a user id", "subject", clm.Subject())
		return 0, goerror.NewUnauthorized("Invalid or expired token")
	}

	return id, nil
}
