package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	repo "github.com/oksasatya/restaurant-review-api/internal/domain/repository"
	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

type UserService struct {
	Users  repo.UserRepository
	Scopes repo.ScopeRepository
	Logger logrus.FieldLogger
}

func NewUserService(users repo.UserRepository, scopes repo.ScopeRepository, logger logrus.FieldLogger) *UserService {
	return &UserService{Users: users, Scopes: scopes, Logger: logger}
}

type CreateUserInput struct {
	Username string
	Password string
	Scopes   []string
	Disabled *bool
}

// Me resolves the token subject to an active user.
func (s *UserService) Me(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, ErrCredentialsExpired
	}
	if err != nil {
		return nil, err
	}
	if u.Disabled {
		return nil, apperror.ErrInactiveUser
	}
	return u, nil
}

func (s *UserService) CreateOrUpdate(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	for _, name := range in.Scopes {
		if !scope.Known(scope.Name(name)) {
			return nil, apperror.Invalid("scopes", "unknown scope "+name)
		}
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.CreateOrUpdate(ctx, repo.UserUpsert{
		Username:     in.Username,
		PasswordHash: hash,
		Scopes:       in.Scopes,
		Disabled:     in.Disabled,
	})
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "scopes": u.ScopeNames()}).Info("user saved")
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user deleted")
	return u, nil
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]entity.User, error) {
	p, err := NewPage(offset, limit, DefaultAdminPageSize)
	if err != nil {
		return nil, err
	}
	return s.Users.List(ctx, p.Offset, p.Limit)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.Users.Count(ctx)
}

func (s *UserService) ListScopes(ctx context.Context, offset, limit int) ([]entity.SecurityScope, error) {
	p, err := NewPage(offset, limit, DefaultAdminPageSize)
	if err != nil {
		return nil, err
	}
	return s.Scopes.List(ctx, p.Offset, p.Limit)
}

// Bootstrap installs the scope catalogue and a superadmin holding every scope.
func (s *UserService) Bootstrap(ctx context.Context, username, password string) (*entity.User, error) {
	if err := s.Scopes.EnsureScopes(ctx, scope.Definitions); err != nil {
		return nil, err
	}
	all := make([]string, 0, len(scope.Definitions))
	for _, d := range scope.Definitions {
		all = append(all, string(d.Name))
	}
	return s.CreateOrUpdate(ctx, CreateUserInput{Username: username, Password: password, Scopes: all})
}
