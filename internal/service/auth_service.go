package service

import (
	"context"
	"errors"
	"time"

	"github.com/rameshmp2/rightmo-technical-test/internal/apierror"
	"github.com/rameshmp2/rightmo-technical-test/internal/config"
	"github.com/rameshmp2/rightmo-technical-test/internal/dto"
	"github.com/rameshmp2/rightmo-technical-test/internal/middleware"
	"github.com/rameshmp2/rightmo-technical-test/internal/model"
	"github.com/rameshmp2/rightmo-technical-test/internal/repository"
	"github.com/rameshmp2/rightmo-technical-test/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenRevoker invalidates issued tokens on logout. Implemented by
// infra.TokenDenylist on Redis.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, claims *middleware.JWTClaims) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	repo     repository.UserRepository
	denylist TokenRevoker
	cfg      *config.Config
}

func NewAuthService(repo repository.UserRepository, denylist TokenRevoker, cfg *config.Config) AuthService {
	return &authService{repo: repo, denylist: denylist, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if fields := validation.Struct(req); len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Unauthorized("Invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User: dto.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}

// Logout denylists the token id for the token's remaining lifetime; the
// auth middleware rejects it from then on.
func (s *authService) Logout(ctx context.Context, claims *middleware.JWTClaims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.denylist.Revoke(ctx, claims.ID, ttl)
}

func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Unauthorized("Unauthenticated")
		}
		return nil, err
	}
	return &dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (s *authService) generateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
