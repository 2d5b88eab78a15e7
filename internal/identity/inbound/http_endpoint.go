package inbound

import (
	"strconv"
	"time"

	"github.com/shandysiswandi/autocare/internal/identity/usecase"
	"github.com/shandysiswandi/autocare/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for authentication and profile workflows.
type HTTPEndpoint struct {
	uc           uc
	cookieSecure bool
}

// Register creates a new user account.
// @Summary Register user
// @Description Creates a new account. Repeating a request with the same Idempotency-Key is rejected.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse} "Created account"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{
		ID:    strconv.FormatInt(resp.ID, 10),
		Name:  resp.Name,
		Email: resp.Email,
	}, nil
}

// Login authenticates a user, returns a session token and sets it as a cookie.
// @Summary Authenticate user
// @Description Accepts email/username and password/senha as JSON or form fields.
// @Tags Identity, Authentication
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if r.IsForm() {
		form, err := r.FormValues()
		if err != nil {
			return nil, err
		}
		req = LoginRequest{
			Email:    form.Get("email"),
			Username: form.Get("username"),
			Password: form.Get("password"),
			Senha:    form.Get("senha"),
		}
	} else if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.email(),
		Password: req.password(),
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		AccessToken: resp.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(resp.ExpiresIn / time.Second),
		Redirect:    resp.Redirect,
		cookie:      sessionCookie(resp.AccessToken, resp.ExpiresIn, h.cookieSecure),
	}, nil
}

// Logout clears the session cookie.
// @Summary Logout
// @Tags Identity, Authentication
// @Produce json
// @Success 200 {object} router.successResponse{data=LogoutResponse} "Logged out"
// @Router /api/v1/identity/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	resp, err := h.uc.Logout(r.Context(), usecase.LogoutInput{AccessToken: router.SessionToken(r.Request)})
	if err != nil {
		return nil, err
	}

	return LogoutResponse{Redirect: resp.Redirect, cookie: clearedSessionCookie(h.cookieSecure)}, nil
}

// LogoutRedirect clears the session cookie and redirects the browser to the login page.
// @Summary Logout (browser)
// @Tags Identity, Authentication
// @Success 302 "Redirect to login page"
// @Router /api/v1/identity/logout [get]
func (h *HTTPEndpoint) LogoutRedirect(r *router.Request) (any, error) {
	resp, err := h.uc.Logout(r.Context(), usecase.LogoutInput{AccessToken: router.SessionToken(r.Request)})
	if err != nil {
		return nil, err
	}

	return logoutRedirect{location: resp.Redirect, cookie: clearedSessionCookie(h.cookieSecure)}, nil
}

// Profile returns the authenticated user's profile.
// @Summary Get profile
// @Tags Identity, Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Profile"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "User not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:        strconv.FormatInt(resp.ID, 10),
		Name:      resp.Name,
		Email:     resp.Email,
		CreatedAt: resp.CreatedAt,
	}, nil
}

// PasswordChange updates the authenticated user's password.
// @Summary Change password
// @Tags Identity, Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PasswordChangeRequest true "Password change payload"
// @Success 200 {object} router.successResponse "Password updated"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/password/change [post]
func (h *HTTPEndpoint) PasswordChange(r *router.Request) (any, error) {
	var req PasswordChangeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordChange(r.Context(), usecase.PasswordChangeInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordChangeResponse{}, nil
}
