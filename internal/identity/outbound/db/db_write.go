package db

import (
	"context"

	"github.com/shandysiswandi/autocare/internal/identity/entity"
	"github.com/shandysiswandi/autocare/internal/pkg/goerror"
)

const (
	queryCreateUser = `INSERT INTO users (id, name, email, password_hash)
VALUES ($1, $2, $3, $4)`

	queryUpdatePassword = `UPDATE users SET password_hash = $2, updated_at = now()
WHERE id = $1`
)

func (s *DB) CreateUser(ctx context.Context, in entity.NewUser) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateUser, in.ID, in.Name, in.Email, in.PasswordHash)
	err = s.mapError(err)
	return err
}

func (s *DB) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserPassword")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryUpdatePassword, id, passwordHash)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
	}

	return err
}
