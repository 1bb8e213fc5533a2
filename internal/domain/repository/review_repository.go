package repository

import (
	"context"

	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
)

type ReviewRepository interface {
	// Create inserts the review and updates the restaurant's avg_rating in a
	// single transaction. It fails with apperror.ErrNotFound, writing nothing,
	// when the restaurant does not exist.
	Create(ctx context.Context, restaurantID, userID string, rating int, text string) (*entity.Review, *entity.Restaurant, error)
	// List and Count filter by rating when it is within 1..5.
	List(ctx context.Context, restaurantID string, rating, offset, limit int) ([]entity.Review, error)
	Count(ctx context.Context, restaurantID string, rating int) (int64, error)
	// Best, Worst and Last return nil without error when the restaurant has
	// no reviews. Ties are broken by earliest created_at, then id.
	Best(ctx context.Context, restaurantID string) (*entity.Review, error)
	Worst(ctx context.Context, restaurantID string) (*entity.Review, error)
	Last(ctx context.Context, restaurantID string) (*entity.Review, error)
}
