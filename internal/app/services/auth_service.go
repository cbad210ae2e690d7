package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/schoolbook/marksdesk/internal/app/models"
	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/app/repositories"
	"github.com/schoolbook/marksdesk/internal/pkg/apperrors"
	"github.com/schoolbook/marksdesk/internal/pkg/auth"
	"github.com/schoolbook/marksdesk/internal/pkg/validation"
)

// AuthService handles authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// RequireAuth verifies a bearer token and returns its principal
	RequireAuth(token string) (*auth.Principal, error)
	// VerifyToken reports token validity without failing
	VerifyToken(token string) *dto.VerifyTokenResponse
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
}

type authServiceImpl struct {
	userRepo   repositories.UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
	now        Clock
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
		now:        utcNow,
	}
}

// Login exchanges credentials for an access token. Unknown users, inactive
// users and wrong passwords all fail with the same error.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetActiveByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			auth.BurnPasswordCheck(req.Password)
			s.logger.Debug().Str("username", req.Username).Msg("Login attempt for unknown or inactive user")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Debug().Str("username", req.Username).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.Username, string(user.Role), map[string]interface{}{
		auth.ClaimUserID: user.ID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("User logged in")
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(s.jwtService.AccessTokenExp().Seconds()),
		},
		User: dto.NewUserResponse(user),
	}, nil
}

func (s *authServiceImpl) RequireAuth(token string) (*auth.Principal, error) {
	principal, err := s.jwtService.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	return principal, nil
}

func (s *authServiceImpl) VerifyToken(token string) *dto.VerifyTokenResponse {
	principal, err := s.jwtService.Verify(token)
	if err != nil {
		return &dto.VerifyTokenResponse{Valid: false}
	}
	return &dto.VerifyTokenResponse{Valid: true, Payload: principal.Claims}
}

// CreateUser registers an account with a bcrypt-hashed password
func (s *authServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleAdmin
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.NewConflictError(apperrors.ErrUsernameTaken, "Username already exists: "+req.Username)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("User created")
	return user, nil
}
