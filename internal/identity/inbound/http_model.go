package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/autocare/internal/pkg/router"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (RegisterResponse) StatusCode() int { return http.StatusCreated }

func (RegisterResponse) Message() string { return "Registration successful" }

// LoginRequest accepts both the API field names and the legacy form names.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Senha    string `json:"senha"`
}

func (r LoginRequest) email() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

func (r LoginRequest) password() string {
	if r.Password != "" {
		return r.Password
	}
	return r.Senha
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Redirect    string `json:"redirect"`

	cookie *http.Cookie
}

func (LoginResponse) Message() string { return "ok" }

func (r LoginResponse) Cookies() []*http.Cookie { return []*http.Cookie{r.cookie} }

type LogoutResponse struct {
	Redirect string `json:"redirect"`

	cookie *http.Cookie
}

func (LogoutResponse) Message() string { return "Logged out" }

func (r LogoutResponse) Cookies() []*http.Cookie { return []*http.Cookie{r.cookie} }

type logoutRedirect struct {
	location string
	cookie   *http.Cookie
}

func (r logoutRedirect) Location() string { return r.location }

func (r logoutRedirect) Cookies() []*http.Cookie { return []*http.Cookie{r.cookie} }

type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type PasswordChangeResponse struct{}

func (PasswordChangeResponse) Message() string { return "Password updated" }

func sessionCookie(value string, maxAge time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     router.CookieAccessToken,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearedSessionCookie(secure bool) *http.Cookie {
	c := sessionCookie("", 0, secure)
	c.MaxAge = -1
	return c
}
