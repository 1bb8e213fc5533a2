package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	repo "github.com/oksasatya/restaurant-review-api/internal/domain/repository"
	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: incorrect username or password", apperror.ErrUnauthenticated)
	ErrCredentialsExpired = fmt.Errorf("%w: could not validate credentials", apperror.ErrUnauthenticated)
)

type AuthService struct {
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
	Revoked TokenRevoker
	Logger  logrus.FieldLogger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, revoked TokenRevoker, logger logrus.FieldLogger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Revoked: revoked, Logger: logger}
}

// Authenticate validates username/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	ok, err := helpers.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		s.Logger.WithError(err).WithField("username", username).Error("stored password hash is unusable")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if u.Disabled {
		return nil, apperror.ErrInactiveUser
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return TokenPair{}, err
	}
	access, aexp, err := s.JWT.IssueAccess(u.Username, scope.FromStrings(u.ScopeNames()), false)
	if err != nil {
		s.Logger.WithError(err).WithField("username", u.Username).Error("issue access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.IssueRefresh(u.Username)
	if err != nil {
		s.Logger.WithError(err).WithField("username", u.Username).Error("issue refresh token failed")
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh mints a fresh access token carrying the user's current scopes.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}
	u, err := s.Users.GetByUsername(ctx, claims.Subject)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", time.Time{}, ErrCredentialsExpired
	}
	if err != nil {
		return "", time.Time{}, err
	}
	if u.Disabled {
		return "", time.Time{}, apperror.ErrInactiveUser
	}
	return s.JWT.IssueAccess(u.Username, scope.FromStrings(u.ScopeNames()), true)
}

// Logout revokes the refresh token until its natural expiry. When the
// denylist is unreachable the token stays valid and only cookies are cleared.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	if s.Revoked == nil {
		return nil
	}
	if err := s.Revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.Logger.WithError(err).WithField("username", claims.Subject).Warn("token denylist unavailable; refresh token not revoked")
	}
	return nil
}

func (s *AuthService) verifyRefresh(ctx context.Context, token string) (*helpers.RefreshClaims, error) {
	claims, err := s.JWT.VerifyRefresh(token)
	if err != nil {
		return nil, err
	}
	if s.Revoked == nil {
		return claims, nil
	}
	// Denylist outages fail open, like the rate limiter.
	revoked, err := s.Revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("username", claims.Subject).Warn("token denylist unavailable; skipping revocation check")
		return claims, nil
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", apperror.ErrUnauthenticated)
	}
	return claims, nil
}

// Signup registers an enabled user holding users:me.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.Signup(ctx, username, hash)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("username", u.Username).Info("user signed up")
	return u, nil
}
