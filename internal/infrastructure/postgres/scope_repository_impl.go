package postgres

import (
	"context"
	"fmt"

	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	"github.com/oksasatya/restaurant-review-api/internal/domain/repository"
	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
)

type ScopeRepository struct {
	db DB
}

func NewScopeRepository(db DB) *ScopeRepository {
	return &ScopeRepository{db: db}
}

func (r *ScopeRepository) EnsureScopes(ctx context.Context, defs []scope.Definition) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, d := range defs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO security_scopes (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, string(d.Name), d.Description); err != nil {
			return mapError("ensure scope "+string(d.Name), err)
		}
	}
	return mapError("commit", tx.Commit(ctx))
}

func (r *ScopeRepository) List(ctx context.Context, offset, limit int) ([]entity.SecurityScope, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, name, description
		FROM security_scopes
		ORDER BY name
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, mapError("list scopes", err)
	}
	defer rows.Close()

	out := make([]entity.SecurityScope, 0, limit)
	for rows.Next() {
		var s entity.SecurityScope
		if err := rows.Scan(&s.ID, &s.Name, &s.Description); err != nil {
			return nil, mapError("scan scope", err)
		}
		out = append(out, s)
	}
	return out, mapError("list scopes", rows.Err())
}

var _ repository.ScopeRepository = (*ScopeRepository)(nil)
