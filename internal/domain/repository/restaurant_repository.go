package repository

import (
	"context"

	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
)

type RestaurantRepository interface {
	Create(ctx context.Context, r *entity.Restaurant) error
	GetByID(ctx context.Context, id string) (*entity.Restaurant, error)
	Update(ctx context.Context, u entity.RestaurantUpdate) (*entity.Restaurant, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]entity.Restaurant, error)
	Find(ctx context.Context, f entity.RestaurantFilter, offset, limit int) ([]entity.Restaurant, error)
	Count(ctx context.Context, f entity.RestaurantFilter) (int64, error)
	SetPhotoURL(ctx context.Context, id, url string) error
}
