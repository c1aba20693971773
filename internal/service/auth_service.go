package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelduarte/taskapi/internal/apperrors"
	"github.com/rafaelduarte/taskapi/internal/auth"
	"github.com/rafaelduarte/taskapi/internal/logger"
	"github.com/rafaelduarte/taskapi/internal/models"
	"github.com/rafaelduarte/taskapi/internal/storage"
	"github.com/rafaelduarte/taskapi/internal/validation"
)

// AuthService implements registration, login and profile lookup on top of the
// UserStore and the JWTManager. It is shared by the REST and GraphQL facades.
type AuthService struct {
	users storage.UserStore
	jwt   *auth.JWTManager
	log   *logger.Logger
}

func NewAuthService(users storage.UserStore, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		users: users,
		jwt:   jwtManager,
		log:   logger.New("auth-service"),
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := validation.ValidateName(req.Name); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal().WithCause(err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        validation.NormalizeEmail(req.Email),
		Name:         req.Name,
		Role:         models.RoleUser,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if err == storage.ErrEmailExists {
			return nil, apperrors.EmailAlreadyExists()
		}
		return nil, apperrors.Internal().WithCause(err)
	}

	token, expiresAt, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal().WithCause(err)
	}

	s.log.Info("user registered: %s", user.Email)
	return &models.AuthResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Login fails with the same error value for unknown email and wrong password.
// The unknown-email path still burns a bcrypt comparison so the two failures
// are not separable by timing either.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := validation.NormalizeEmail(req.Email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Internal().WithCause(err)
	}
	if user == nil {
		auth.BurnPasswordCheck(req.Password)
		return nil, apperrors.InvalidCredentials()
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	token, expiresAt, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal().WithCause(err)
	}

	s.log.Info("user logged in: %s", user.Email)
	return &models.AuthResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal().WithCause(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

// SeedAdmin creates the configured admin account if it does not exist yet.
// Idempotent across restarts.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password, name string) error {
	email = validation.NormalizeEmail(email)

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if existing != nil {
		return nil
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now()
	admin := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Role:         models.RoleAdmin,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, admin); err != nil {
		if err == storage.ErrEmailExists {
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	s.log.Info("admin account seeded: %s", email)
	return nil
}
