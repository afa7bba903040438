package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"notedeck/internal/config"
	"notedeck/internal/utils/crypto"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service handles authentication business logic.
type Service struct {
	repo   UsersRepo
	config config.Config
	log    *slog.Logger
}

// NewService creates a new auth service.
func NewService(repo UsersRepo, cfg config.Config, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
		log:    log,
	}
}

// SignUpRequest represents a user registration request.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email" example:"test@example.com"`
	Password string `json:"password" validate:"required,password" example:"Password123"`
}

// SignInRequest represents a user login request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email" example:"test@example.com"`
	Password string `json:"password" validate:"required" example:"Password123"`
}

// AuthResponse represents the payload for successful authentication.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// SignUp registers a new user and issues an access token. Duplicate emails
// are masked so the endpoint does not leak which addresses exist.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	hashedPassword, err := crypto.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		s.log.Error("failed to hash password", "error", err)
		return nil, errors.New("failed to process password")
	}

	now := time.Now()
	user := &User{
		ID:           bson.NewObjectID(),
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, maskDuplicateError()
		}
		s.log.Error("failed to create user", "error", err)
		return nil, errors.New("failed to create user")
	}

	token, err := s.generateJWT(user)
	if err != nil {
		s.log.Error(ErrGenAccessToken.Error(), "error", err)
		return nil, ErrGenAccessToken
	}

	return &AuthResponse{User: user, Token: token}, nil
}

// SignIn authenticates a user and issues an access token.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Info("sign-in for unknown email", "error", err)
		return nil, ErrInvalidCredentials
	}

	if err := crypto.CheckPassword(req.Password, user.PasswordHash); err != nil {
		s.log.Info("sign-in with wrong password", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		s.log.Error(ErrGenAccessToken.Error(), "error", err)
		return nil, ErrGenAccessToken
	}

	return &AuthResponse{User: user, Token: token}, nil
}

func (s *Service) generateJWT(user *User) (string, error) {
	if strings.ToUpper(s.config.JWTAlgorithm) != "HS256" {
		return "", ErrUnsupportedJWTAlg
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
		"exp":     now.Add(time.Duration(s.config.AccessTokenMinutes) * time.Minute).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func maskDuplicateError() error {
	return errors.New("registration failed")
}
