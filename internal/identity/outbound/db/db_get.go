package db

import (
	"context"

	"github.com/shandysiswandi/autocare/internal/identity/entity"
)

const (
	queryUserByID = `SELECT id, name, email, created_at, updated_at
FROM users WHERE id = $1`

	queryUserByEmail = `SELECT id, name, email, created_at, updated_at
FROM users WHERE lower(email) = lower($1)`

	queryCredentialByID = `SELECT id, email, password_hash
FROM users WHERE id = $1`

	queryCredentialByEmail = `SELECT id, email, password_hash
FROM users WHERE lower(email) = lower($1)`
)

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	return s.getUser(ctx, queryUserByID, id)
}

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	return s.getUser(ctx, queryUserByEmail, email)
}

func (s *DB) GetUserCredentialByID(ctx context.Context, id int64) (_ *entity.UserCredential, err error) {
	ctx, span := s.startSpan(ctx, "GetUserCredentialByID")
	defer func() { s.endSpan(span, err) }()

	return s.getCredential(ctx, queryCredentialByID, id)
}

func (s *DB) GetUserCredentialByEmail(ctx context.Context, email string) (_ *entity.UserCredential, err error) {
	ctx, span := s.startSpan(ctx, "GetUserCredentialByEmail")
	defer func() { s.endSpan(span, err) }()

	return s.getCredential(ctx, queryCredentialByEmail, email)
}

func (s *DB) getUser(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := s.conn.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &u, nil
}

func (s *DB) getCredential(ctx context.Context, query string, arg any) (*entity.UserCredential, error) {
	var c entity.UserCredential
	if err := s.conn.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Email, &c.PasswordHash); err != nil {
		return nil, s.mapError(err)
	}

	return &c, nil
}
