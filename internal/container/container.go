// Package container holds the process-wide clients built at startup and
// assembles the application services from them.
package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/config"
	"github.com/oksasatya/restaurant-review-api/internal/application"
	"github.com/oksasatya/restaurant-review-api/internal/infrastructure/postgres"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

// Container is built once in main. Redis, Publisher, Index and Photos are optional
// and stay nil when their backend is not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	PG     *pgxpool.Pool
	Redis  *redis.Client
	JWT    *helpers.JWTManager

	Publisher *helpers.RabbitPublisher
	Index     *helpers.RestaurantIndex
	Photos    *helpers.GCSUploader
}

type Services struct {
	Auth        *application.AuthService
	Users       *application.UserService
	Reviews     *application.ReviewService
	Restaurants *application.RestaurantService
}

// Services wires repositories and services. Optional clients are only
// handed over when set so services see a nil interface otherwise.
func (c *Container) Services() *Services {
	users := postgres.NewUserRepository(c.PG)
	scopes := postgres.NewScopeRepository(c.PG)
	restaurants := postgres.NewRestaurantRepository(c.PG)
	reviews := postgres.NewReviewRepository(c.PG)

	var revoker application.TokenRevoker
	if c.Redis != nil {
		revoker = helpers.NewTokenDenylist(c.Redis)
	}
	var events application.EventPublisher
	if c.Publisher != nil {
		events = c.Publisher
	}
	var photos application.PhotoUploader
	if c.Photos != nil {
		photos = c.Photos
	}
	var search application.RestaurantSearcher
	if c.Index != nil {
		search = c.Index
	}

	reviewSvc := application.NewReviewService(reviews, users, events, c.Logger)
	return &Services{
		Auth:        application.NewAuthService(users, c.JWT, revoker, c.Logger),
		Users:       application.NewUserService(users, scopes, c.Logger),
		Reviews:     reviewSvc,
		Restaurants: application.NewRestaurantService(restaurants, reviewSvc, events, photos, search, c.Logger),
	}
}

// Close releases every client that was opened.
func (c *Container) Close() {
	if c.Publisher != nil {
		c.Publisher.Close()
	}
	if c.Photos != nil {
		_ = c.Photos.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PG != nil {
		c.PG.Close()
	}
}
