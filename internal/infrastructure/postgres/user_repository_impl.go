package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	"github.com/oksasatya/restaurant-review-api/internal/domain/repository"
	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
)

const userColumns = `id::text, username, hashed_password, disabled, created_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row scanner) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Disabled, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, r.db, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, r.db, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) getOne(ctx context.Context, q querier, sql string, arg any) (*entity.User, error) {
	u, err := scanUser(q.QueryRow(ctx, sql, arg))
	if err != nil {
		return nil, mapError("get user", err)
	}
	scopes, err := loadScopes(ctx, q, []string{u.ID})
	if err != nil {
		return nil, err
	}
	u.Scopes = scopes[u.ID]
	return u, nil
}

// loadScopes returns the granted scopes per user id.
func loadScopes(ctx context.Context, q querier, userIDs []string) (map[string][]entity.SecurityScope, error) {
	out := make(map[string][]entity.SecurityScope, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT us.user_id::text, s.id::text, s.name, s.description
		FROM user_security_scopes us
		JOIN security_scopes s ON s.id = us.security_scope_id
		WHERE us.user_id = ANY($1::uuid[])
		ORDER BY s.name
	`, userIDs)
	if err != nil {
		return nil, mapError("load scopes", err)
	}
	defer rows.Close()
	for rows.Next() {
		var uid string
		var s entity.SecurityScope
		if err := rows.Scan(&uid, &s.ID, &s.Name, &s.Description); err != nil {
			return nil, mapError("scan scope", err)
		}
		out[uid] = append(out[uid], s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("load scopes", err)
	}
	return out, nil
}

func (r *UserRepository) CreateOrUpdate(ctx context.Context, in repository.UserUpsert) (*entity.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	if err := tx.QueryRow(ctx, `
		INSERT INTO users (username, hashed_password, disabled)
		VALUES ($1, $2, COALESCE($3, FALSE))
		ON CONFLICT (username) DO UPDATE
		SET hashed_password = EXCLUDED.hashed_password,
		    disabled = COALESCE($3, users.disabled)
		RETURNING id::text
	`, in.Username, in.PasswordHash, in.Disabled).Scan(&id); err != nil {
		return nil, mapError("upsert user", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_security_scopes WHERE user_id = $1`, id); err != nil {
		return nil, mapError("clear user scopes", err)
	}
	if len(in.Scopes) > 0 {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_security_scopes (user_id, security_scope_id)
			SELECT $1, id FROM security_scopes WHERE name = ANY($2)
		`, id, in.Scopes); err != nil {
			return nil, mapError("grant user scopes", err)
		}
	}
	u, err := r.getOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapError("commit", err)
	}
	return u, nil
}

func (r *UserRepository) Signup(ctx context.Context, username, passwordHash string) (*entity.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u, err := scanUser(tx.QueryRow(ctx, `
		INSERT INTO users (username, hashed_password, disabled)
		VALUES ($1, $2, FALSE)
		RETURNING `+userColumns, username, passwordHash))
	if err != nil {
		return nil, mapError("insert user", err)
	}
	var granted entity.SecurityScope
	err = tx.QueryRow(ctx, `
		WITH granted AS (
			INSERT INTO user_security_scopes (user_id, security_scope_id)
			SELECT $1, id FROM security_scopes WHERE name = $2
			RETURNING security_scope_id
		)
		SELECT s.id::text, s.name, s.description
		FROM security_scopes s
		JOIN granted g ON g.security_scope_id = s.id
	`, u.ID, string(scope.UsersMe)).Scan(&granted.ID, &granted.Name, &granted.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New("grant signup scope: security scopes are not bootstrapped")
	}
	if err != nil {
		return nil, mapError("grant signup scope", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapError("commit", err)
	}
	u.Scopes = []entity.SecurityScope{granted}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*entity.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u, err := r.getOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return nil, mapError("delete user", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapError("commit", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, mapError("list users", err)
	}
	defer rows.Close()

	users := make([]entity.User, 0, limit)
	ids := make([]string, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError("scan user", err)
		}
		users = append(users, *u)
		ids = append(ids, u.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list users", err)
	}
	rows.Close()

	scopes, err := loadScopes(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Scopes = scopes[users[i].ID]
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, mapError("count users", err)
	}
	return n, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
