package db

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schema string

// Migrate creates the identity tables when they do not exist yet.
func (s *DB) Migrate(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, "Migrate")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, schema)
	return err
}
