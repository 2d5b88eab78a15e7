package identity

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shandysiswandi/autocare/internal/identity/inbound"
	"github.com/shandysiswandi/autocare/internal/identity/outbound/db"
	"github.com/shandysiswandi/autocare/internal/identity/usecase"
	"github.com/shandysiswandi/autocare/internal/pkg/config"
	"github.com/shandysiswandi/autocare/internal/pkg/hash"
	"github.com/shandysiswandi/autocare/internal/pkg/idempotency"
	"github.com/shandysiswandi/autocare/internal/pkg/instrument"
	"github.com/shandysiswandi/autocare/internal/pkg/router"
	"github.com/shandysiswandi/autocare/internal/pkg/token"
	"github.com/shandysiswandi/autocare/internal/pkg/uid"
	"github.com/shandysiswandi/autocare/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	Password    *hash.Password             `validate:"required"`
	Codec       token.Codec                `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbIdentity := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:      dbIdentity,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      dep.Config,
		Password:    dep.Password,
		UID:         dep.UID,
		Codec:       dep.Codec,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.Options{
		CookieSecure: dep.Config.GetBool("http.cookie_secure"),
	})

	return nil
}
