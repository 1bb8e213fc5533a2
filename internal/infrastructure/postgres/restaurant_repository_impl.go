package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	"github.com/oksasatya/restaurant-review-api/internal/domain/repository"
)

const restaurantColumns = `id::text, name, description, country, postal_code, address,
	webpage, phone_number, disabled, avg_rating::float8, photo_url, created_at`

type RestaurantRepository struct {
	db DB
}

func NewRestaurantRepository(db DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func scanRestaurant(row scanner) (*entity.Restaurant, error) {
	r := &entity.Restaurant{}
	err := row.Scan(
		&r.ID, &r.Name, &r.Description, &r.Country, &r.PostalCode, &r.Address,
		&r.Webpage, &r.PhoneNumber, &r.Disabled, &r.AvgRating, &r.PhotoURL, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RestaurantRepository) Create(ctx context.Context, rest *entity.Restaurant) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO restaurants (name, description, country, postal_code, address, webpage, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+restaurantColumns,
		rest.Name, rest.Description, rest.Country, rest.PostalCode, rest.Address, rest.Webpage, rest.PhoneNumber,
	)
	created, err := scanRestaurant(row)
	if err != nil {
		return mapError("insert restaurant", err)
	}
	*rest = *created
	return nil
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*entity.Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRow(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get restaurant", err)
	}
	return rest, nil
}

func (r *RestaurantRepository) Update(ctx context.Context, u entity.RestaurantUpdate) (*entity.Restaurant, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE restaurants
		SET name = $2, description = $3, country = $4, postal_code = $5, address = $6,
		    webpage = $7, phone_number = $8,
		    disabled = COALESCE($9, disabled), avg_rating = COALESCE($10, avg_rating)
		WHERE id = $1
		RETURNING `+restaurantColumns,
		u.ID, u.Name, u.Description, u.Country, u.PostalCode, u.Address,
		u.Webpage, u.PhoneNumber, u.Disabled, u.AvgRating,
	)
	rest, err := scanRestaurant(row)
	if err != nil {
		return nil, mapError("update restaurant", err)
	}
	return rest, nil
}

func (r *RestaurantRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return mapError("delete restaurant", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete restaurant: %w", apperror.ErrNotFound)
	}
	return nil
}

func (r *RestaurantRepository) SetPhotoURL(ctx context.Context, id, url string) error {
	tag, err := r.db.Exec(ctx, `UPDATE restaurants SET photo_url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return mapError("set photo url", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set photo url: %w", apperror.ErrNotFound)
	}
	return nil
}

func (r *RestaurantRepository) List(ctx context.Context, offset, limit int) ([]entity.Restaurant, error) {
	return r.Find(ctx, entity.RestaurantFilter{}, offset, limit)
}

// filterClause renders f as a WHERE clause whose placeholders start at $1.
func filterClause(f entity.RestaurantFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Country != "" {
		add("country = $%d", f.Country)
	}
	if f.PostalCode != "" {
		add("postal_code = $%d", f.PostalCode)
	}
	if f.Name != "" {
		add("name ILIKE $%d", containsPattern(f.Name))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *RestaurantRepository) Find(ctx context.Context, f entity.RestaurantFilter, offset, limit int) ([]entity.Restaurant, error) {
	where, args := filterClause(f)
	n := len(args)
	sql := `SELECT ` + restaurantColumns + ` FROM restaurants` + where +
		fmt.Sprintf(` ORDER BY created_at, id OFFSET $%d LIMIT $%d`, n+1, n+2)
	args = append(args, offset, limit)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError("find restaurants", err)
	}
	defer rows.Close()

	out := make([]entity.Restaurant, 0, limit)
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, mapError("scan restaurant", err)
		}
		out = append(out, *rest)
	}
	return out, mapError("find restaurants", rows.Err())
}

func (r *RestaurantRepository) Count(ctx context.Context, f entity.RestaurantFilter) (int64, error) {
	where, args := filterClause(f)
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM restaurants`+where, args...).Scan(&n); err != nil {
		return 0, mapError("count restaurants", err)
	}
	return n, nil
}

var _ repository.RestaurantRepository = (*RestaurantRepository)(nil)
