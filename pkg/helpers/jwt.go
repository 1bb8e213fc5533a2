package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTConfig configures a JWTManager. Algorithm must be one of HS256, HS384, HS512.
type JWTConfig struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// JWTManager issues and verifies the access/refresh token pair.
type JWTManager struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// AccessClaims authorize requests. Scopes are only ever read from this type.
type AccessClaims struct {
	TokenType string   `json:"token_type"`
	Scopes    []string `json:"scopes"`
	Fresh     bool     `json:"fresh"`
	jwt.RegisteredClaims
}

// ScopeSet returns the granted scopes as a set.
func (c *AccessClaims) ScopeSet() scope.Set {
	return scope.FromStrings(c.Scopes)
}

// RefreshClaims only identify the subject.
type RefreshClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func NewJWTManager(cfg JWTConfig) (*JWTManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: empty secret")
	}
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("jwt: unsupported algorithm %q", cfg.Algorithm)
	}
	return &JWTManager{
		secret:     []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

func (m *JWTManager) registered(subject string, ttl time.Duration) (jwt.RegisteredClaims, time.Time) {
	now := time.Now()
	exp := now.Add(ttl)
	return jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}, exp
}

// IssueAccess mints an access token carrying scopes.
func (m *JWTManager) IssueAccess(subject string, scopes scope.Set, fresh bool) (string, time.Time, error) {
	rc, exp := m.registered(subject, m.accessTTL)
	claims := &AccessClaims{
		TokenType:        TokenTypeAccess,
		Scopes:           scopes.Strings(),
		Fresh:            fresh,
		RegisteredClaims: rc,
	}
	s, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	return s, exp, err
}

// IssueRefresh mints a refresh token. It carries no scopes.
func (m *JWTManager) IssueRefresh(subject string) (string, time.Time, error) {
	rc, exp := m.registered(subject, m.refreshTTL)
	claims := &RefreshClaims{TokenType: TokenTypeRefresh, RegisteredClaims: rc}
	s, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	return s, exp, err
}

func (m *JWTManager) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("%w: not an access token", apperror.ErrUnauthenticated)
	}
	return claims, nil
}

func (m *JWTManager) VerifyRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("%w: not a refresh token", apperror.ErrUnauthenticated)
	}
	return claims, nil
}

func (m *JWTManager) parse(token string, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrUnauthenticated, err)
	}
	if !tkn.Valid {
		return fmt.Errorf("%w: invalid token", apperror.ErrUnauthenticated)
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return fmt.Errorf("%w: missing subject", apperror.ErrUnauthenticated)
	}
	return nil
}
