package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	repo "github.com/oksasatya/restaurant-review-api/internal/domain/repository"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

type ReviewService struct {
	Reviews repo.ReviewRepository
	Users   repo.UserRepository
	Events  EventPublisher
	Logger  logrus.FieldLogger
}

func NewReviewService(reviews repo.ReviewRepository, users repo.UserRepository, events EventPublisher, logger logrus.FieldLogger) *ReviewService {
	return &ReviewService{Reviews: reviews, Users: users, Events: events, Logger: logger}
}

// Create records a review by the user named in the access token.
func (s *ReviewService) Create(ctx context.Context, restaurantID, username string, rating int, text string) (*entity.Review, error) {
	if !entity.ValidRating(rating) {
		return nil, apperror.Invalid("rating", "must be between 1 and 5")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperror.Invalid("review", "must not be empty")
	}
	u, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, ErrCredentialsExpired
	}
	if err != nil {
		return nil, err
	}

	rv, rest, err := s.Reviews.Create(ctx, restaurantID, u.ID, rating, text)
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"restaurant_id": rest.ID,
		"review_id":     rv.ID,
		"avg_rating":    rest.AvgRating,
	}).Info("review created")

	publish(ctx, s.Events, s.Logger, helpers.Event{
		Type:         helpers.EventReviewCreated,
		RestaurantID: rest.ID,
		ReviewID:     rv.ID,
		Rating:       rv.Rating,
	})
	return rv, nil
}

// List returns one page of reviews and the total matching count. A rating
// outside 1..5 disables the rating filter.
func (s *ReviewService) List(ctx context.Context, restaurantID string, rating, offset, limit int) ([]entity.Review, int64, error) {
	p, err := NewPage(offset, limit, DefaultPageSize)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.Reviews.List(ctx, restaurantID, rating, p.Offset, p.Limit)
	if err != nil {
		return nil, 0, err
	}
	n, err := s.Reviews.Count(ctx, restaurantID, rating)
	if err != nil {
		return nil, 0, err
	}
	return items, n, nil
}

// Highlights picks the featured reviews of a restaurant. With a single review
// only Last is set. A review is never shown under two labels: Last yields to
// Best and Worst, Worst yields to Best.
func (s *ReviewService) Highlights(ctx context.Context, restaurantID string) (entity.Highlights, error) {
	var h entity.Highlights
	n, err := s.Reviews.Count(ctx, restaurantID, 0)
	if err != nil {
		return h, err
	}
	h.Count = n
	if n == 0 {
		return h, nil
	}
	if h.Last, err = s.Reviews.Last(ctx, restaurantID); err != nil {
		return h, err
	}
	if n > 1 {
		if h.Best, err = s.Reviews.Best(ctx, restaurantID); err != nil {
			return h, err
		}
		if h.Worst, err = s.Reviews.Worst(ctx, restaurantID); err != nil {
			return h, err
		}
	}
	if sameReview(h.Last, h.Best) || sameReview(h.Last, h.Worst) {
		h.Last = nil
	}
	if sameReview(h.Best, h.Worst) {
		h.Worst = nil
	}
	return h, nil
}

func sameReview(a, b *entity.Review) bool {
	return a != nil && b != nil && a.ID == b.ID
}
