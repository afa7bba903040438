package auth

import (
	"context"
	"errors"

	"notedeck/cmd/server/handlers/handlerutil"
	"notedeck/cmd/server/handlers/httperr"
	"notedeck/internal/services/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthService defines the interface for the auth service.
type AuthService interface {
	SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.AuthResponse, error)
	SignIn(ctx context.Context, req auth.SignInRequest) (*auth.AuthResponse, error)
}

// Handlers contains the auth HTTP handlers.
type Handlers struct {
	authService AuthService
	validator   *validator.Validate
}

// NewHandlers creates new auth handlers.
func NewHandlers(authService AuthService, validator *validator.Validate) *Handlers {
	return &Handlers{
		authService: authService,
		validator:   validator,
	}
}

// SignUp handles user registration
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.SignUpRequest true "Sign up request"
// @Success 201 {object} handlerutil.Envelope
// @Failure 400 {object} httperr.E
// @Router /auth/signup [post]
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req auth.SignUpRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "SignUp"); err != nil {
		return err
	}

	resp, err := h.authService.SignUp(c.Context(), req)
	if err != nil {
		return httperr.Fail(httperr.E{
			Status:  400,
			Message: err.Error(),
		})
	}

	return handlerutil.Respond(c, 201, "User registered successfully", resp)
}

// SignIn handles user authentication
// @Summary Authenticate a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.SignInRequest true "Sign in request"
// @Success 200 {object} handlerutil.Envelope
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 429 {object} httperr.E
// @Router /auth/signin [post]
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	var req auth.SignInRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "SignIn"); err != nil {
		return err
	}

	resp, err := h.authService.SignIn(c.Context(), req)
	if err != nil {
		status := 400
		if errors.Is(err, auth.ErrInvalidCredentials) {
			status = 401
		}
		return httperr.Fail(httperr.E{
			Status:  status,
			Message: err.Error(),
		})
	}

	return handlerutil.Respond(c, 200, "Signed in successfully", resp)
}
