package entity

import "time"

// User is an account as exposed to the owner.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserCredential carries the stored password artifact for verification.
type UserCredential struct {
	ID           int64
	Email        string
	PasswordHash string
}

// NewUser is the input for creating an account.
type NewUser struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}
