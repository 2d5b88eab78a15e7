package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shandysiswandi/autocare/internal/pkg/clock"
	"github.com/shandysiswandi/autocare/internal/pkg/config"
	"github.com/shandysiswandi/autocare/internal/pkg/goroutine"
	"github.com/shandysiswandi/autocare/internal/pkg/hash"
	"github.com/shandysiswandi/autocare/internal/pkg/idempotency"
	"github.com/shandysiswandi/autocare/internal/pkg/instrument"
	"github.com/shandysiswandi/autocare/internal/pkg/router"
	"github.com/shandysiswandi/autocare/internal/pkg/token"
	"github.com/shandysiswandi/autocare/internal/pkg/uid"
	"github.com/shandysiswandi/autocare/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	password  *hash.Password
	uid       uid.NumberID
	uuid      uid.StringID
	codec     token.Codec

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initToken()
	app.initDatabase()
	app.initCache()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
