package repository

import (
	"context"

	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
)

// ScopeRepository manages the security scope catalogue.
type ScopeRepository interface {
	// EnsureScopes inserts missing scopes and leaves existing ones untouched.
	EnsureScopes(ctx context.Context, defs []scope.Definition) error
	List(ctx context.Context, offset, limit int) ([]entity.SecurityScope, error)
}
