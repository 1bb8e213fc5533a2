package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

// TokenRevoker remembers revoked refresh tokens by jti.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// EventPublisher ships domain events to the indexer.
type EventPublisher interface {
	Publish(ctx context.Context, ev helpers.Event) error
}

// PhotoUploader stores restaurant photos and returns their public URL.
type PhotoUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// RestaurantSearcher is the full-text side of the restaurant catalogue.
type RestaurantSearcher interface {
	Search(ctx context.Context, q string, from, size int) ([]helpers.RestaurantDoc, int64, error)
}

var (
	_ TokenRevoker       = (*helpers.TokenDenylist)(nil)
	_ EventPublisher     = (*helpers.RabbitPublisher)(nil)
	_ PhotoUploader      = (*helpers.GCSUploader)(nil)
	_ RestaurantSearcher = (*helpers.RestaurantIndex)(nil)
)
