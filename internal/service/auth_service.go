package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pos-ticketing/internal/auth"
	"github.com/spec-kit/pos-ticketing/internal/config"
	"github.com/spec-kit/pos-ticketing/internal/domain"
	"github.com/spec-kit/pos-ticketing/internal/repository"
	apperrors "github.com/spec-kit/pos-ticketing/pkg/util"
)

// AuthService handles terminal operator logins.
type AuthService struct {
	staff  repository.StaffRepository
	tokens *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.Config, staff repository.StaffRepository) *AuthService {
	return &AuthService{
		staff:  staff,
		tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// LoginStaff validates a name and PIN and issues a bearer token.
func (s *AuthService) LoginStaff(ctx context.Context, name, pin string) (string, time.Time, *domain.StaffMember, error) {
	staff, err := s.staff.GetByName(ctx, name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", time.Time{}, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, nil, err
	}
	if !staff.IsActive {
		return "", time.Time{}, nil, apperrors.NewForbidden("staff member inactive")
	}
	if err := auth.ComparePIN(staff.PINHash, pin); err != nil {
		return "", time.Time{}, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(staff)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, staff, nil
}
