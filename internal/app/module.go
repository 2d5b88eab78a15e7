package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/autocare/internal/identity"
)

func (a *App) initModules() {
	if err := identity.New(identity.Dependency{
		DBConn:      a.dbConn,
		Router:      a.router,
		Idempotency: a.idemp,
		Config:      a.config,
		Instrument:  a.ins,
		UID:         a.uid,
		Password:    a.password,
		Codec:       a.codec,
		Validator:   a.validator,
	}); err != nil {
		slog.Error("failed to init module identity", "error", err)
		os.Exit(1)
	}
}
