package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	"github.com/oksasatya/restaurant-review-api/internal/domain/repository"
)

const reviewColumns = `id::text, restaurant_id::text, COALESCE(user_id::text, ''), rating, review, created_at`

type ReviewRepository struct {
	db DB
}

func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func scanReview(row scanner) (*entity.Review, error) {
	rv := &entity.Review{}
	if err := row.Scan(&rv.ID, &rv.RestaurantID, &rv.UserID, &rv.Rating, &rv.Review, &rv.CreatedAt); err != nil {
		return nil, err
	}
	return rv, nil
}

// Create stores the review and recomputes the restaurant's avg_rating in the
// same transaction. The restaurant row is locked first so concurrent reviews
// of one restaurant are applied one after another.
func (r *ReviewRepository) Create(ctx context.Context, restaurantID, userID string, rating int, text string) (*entity.Review, *entity.Restaurant, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rest, err := scanRestaurant(tx.QueryRow(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1 FOR UPDATE`, restaurantID))
	if err != nil {
		return nil, nil, mapError("lock restaurant", err)
	}

	var stats entity.RatingStats
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(rating), 0)
		FROM reviews
		WHERE restaurant_id = $1
	`, restaurantID).Scan(&stats.Count, &stats.Sum); err != nil {
		return nil, nil, mapError("aggregate ratings", err)
	}

	rv := &entity.Review{RestaurantID: rest.ID, UserID: userID, Rating: rating, Review: text}
	if err := tx.QueryRow(ctx, `
		INSERT INTO reviews (restaurant_id, user_id, rating, review)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4)
		RETURNING id::text, created_at
	`, restaurantID, userID, rating, text).Scan(&rv.ID, &rv.CreatedAt); err != nil {
		return nil, nil, mapError("insert review", err)
	}

	stats = stats.Add(rating)
	rest.AvgRating = stats.AvgRating()
	if _, err := tx.Exec(ctx, `UPDATE restaurants SET avg_rating = $2 WHERE id = $1`, restaurantID, rest.AvgRating); err != nil {
		return nil, nil, mapError("update avg_rating", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, mapError("commit", err)
	}
	return rv, rest, nil
}

func (r *ReviewRepository) List(ctx context.Context, restaurantID string, rating, offset, limit int) ([]entity.Review, error) {
	sql := `SELECT ` + reviewColumns + ` FROM reviews WHERE restaurant_id = $1`
	args := []any{restaurantID}
	if entity.ValidRating(rating) {
		sql += ` AND rating = $2`
		args = append(args, rating)
	}
	sql += fmt.Sprintf(` ORDER BY created_at, id OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError("list reviews", err)
	}
	defer rows.Close()

	out := make([]entity.Review, 0, limit)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, mapError("scan review", err)
		}
		out = append(out, *rv)
	}
	return out, mapError("list reviews", rows.Err())
}

func (r *ReviewRepository) Count(ctx context.Context, restaurantID string, rating int) (int64, error) {
	sql := `SELECT COUNT(*) FROM reviews WHERE restaurant_id = $1`
	args := []any{restaurantID}
	if entity.ValidRating(rating) {
		sql += ` AND rating = $2`
		args = append(args, rating)
	}
	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, mapError("count reviews", err)
	}
	return n, nil
}

func (r *ReviewRepository) Best(ctx context.Context, restaurantID string) (*entity.Review, error) {
	return r.first(ctx, "best review", restaurantID, `rating DESC, created_at ASC, id ASC`)
}

func (r *ReviewRepository) Worst(ctx context.Context, restaurantID string) (*entity.Review, error) {
	return r.first(ctx, "worst review", restaurantID, `rating ASC, created_at ASC, id ASC`)
}

func (r *ReviewRepository) Last(ctx context.Context, restaurantID string) (*entity.Review, error) {
	return r.first(ctx, "last review", restaurantID, `created_at DESC, id DESC`)
}

func (r *ReviewRepository) first(ctx context.Context, op, restaurantID, orderBy string) (*entity.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE restaurant_id = $1 ORDER BY `+orderBy+` LIMIT 1`,
		restaurantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(op, err)
	}
	return rv, nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
