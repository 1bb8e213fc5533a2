package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	repo "github.com/oksasatya/restaurant-review-api/internal/domain/repository"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

var (
	ErrPhotoStorageDisabled = errors.New("photo storage not configured")
	ErrSearchDisabled       = errors.New("search not configured")
)

type RestaurantService struct {
	Restaurants repo.RestaurantRepository
	Reviews     *ReviewService
	Events      EventPublisher
	Photos      PhotoUploader
	Search      RestaurantSearcher
	Logger      logrus.FieldLogger
}

func NewRestaurantService(restaurants repo.RestaurantRepository, reviews *ReviewService, events EventPublisher, photos PhotoUploader, search RestaurantSearcher, logger logrus.FieldLogger) *RestaurantService {
	return &RestaurantService{
		Restaurants: restaurants,
		Reviews:     reviews,
		Events:      events,
		Photos:      photos,
		Search:      search,
		Logger:      logger,
	}
}

type RestaurantInput struct {
	Name        string
	Description string
	Country     string
	PostalCode  string
	Address     string
	Webpage     string
	PhoneNumber string
}

// RestaurantDetail is a restaurant with its featured reviews.
type RestaurantDetail struct {
	Restaurant *entity.Restaurant
	entity.Highlights
}

// Create stores a new enabled restaurant with avg_rating 0.0.
func (s *RestaurantService) Create(ctx context.Context, in RestaurantInput) (*entity.Restaurant, error) {
	r := &entity.Restaurant{
		Name:        in.Name,
		Description: in.Description,
		Country:     strings.ToUpper(in.Country),
		PostalCode:  in.PostalCode,
		Address:     in.Address,
		Webpage:     in.Webpage,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.Restaurants.Create(ctx, r); err != nil {
		return nil, err
	}
	s.upserted(ctx, r.ID)
	return r, nil
}

func (s *RestaurantService) Get(ctx context.Context, id string) (*entity.Restaurant, error) {
	return s.Restaurants.GetByID(ctx, id)
}

func (s *RestaurantService) Detail(ctx context.Context, id string) (*RestaurantDetail, error) {
	r, err := s.Restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	h, err := s.Reviews.Highlights(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RestaurantDetail{Restaurant: r, Highlights: h}, nil
}

// Update overwrites the restaurant. Nil disabled or avgRating keep the stored value.
func (s *RestaurantService) Update(ctx context.Context, id string, in RestaurantInput, disabled *bool, avgRating *float64) (*entity.Restaurant, error) {
	if avgRating != nil {
		if *avgRating < 0 || *avgRating > entity.MaxRating {
			return nil, apperror.Invalid("avg_rating", "must be between 0 and 5")
		}
		v := entity.RoundRating(*avgRating)
		avgRating = &v
	}
	r, err := s.Restaurants.Update(ctx, entity.RestaurantUpdate{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Country:     strings.ToUpper(in.Country),
		PostalCode:  in.PostalCode,
		Address:     in.Address,
		Webpage:     in.Webpage,
		PhoneNumber: in.PhoneNumber,
		Disabled:    disabled,
		AvgRating:   avgRating,
	})
	if err != nil {
		return nil, err
	}
	s.upserted(ctx, r.ID)
	return r, nil
}

func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	if err := s.Restaurants.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.Events, s.Logger, helpers.Event{Type: helpers.EventRestaurantDeleted, RestaurantID: id})
	return nil
}

func (s *RestaurantService) List(ctx context.Context, offset, limit int) ([]entity.Restaurant, int64, error) {
	return s.Find(ctx, entity.RestaurantFilter{}, offset, limit)
}

// Find lists restaurants matching f and the total matching count.
func (s *RestaurantService) Find(ctx context.Context, f entity.RestaurantFilter, offset, limit int) ([]entity.Restaurant, int64, error) {
	p, err := NewPage(offset, limit, DefaultPageSize)
	if err != nil {
		return nil, 0, err
	}
	f.Country = strings.ToUpper(f.Country)
	items, err := s.Restaurants.Find(ctx, f, p.Offset, p.Limit)
	if err != nil {
		return nil, 0, err
	}
	n, err := s.Restaurants.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, n, nil
}

// UploadPhoto stores an image and points the restaurant's photo_url at it.
func (s *RestaurantService) UploadPhoto(ctx context.Context, id string, r io.Reader, filename, contentType string) (*entity.Restaurant, error) {
	if s.Photos == nil {
		return nil, ErrPhotoStorageDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.Invalid("photo", "must be an image")
	}
	rest, err := s.Restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("restaurants", id, uuid.NewString()+ext))
	url, err := s.Photos.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	if err := s.Restaurants.SetPhotoURL(ctx, id, url); err != nil {
		return nil, err
	}
	rest.PhotoURL = url
	return rest, nil
}

// SearchRestaurants runs a full-text query against the search index.
func (s *RestaurantService) SearchRestaurants(ctx context.Context, q string, offset, limit int) ([]helpers.RestaurantDoc, int64, error) {
	if s.Search == nil {
		return nil, 0, ErrSearchDisabled
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, 0, apperror.Invalid("q", "must not be empty")
	}
	p, err := NewPage(offset, limit, DefaultPageSize)
	if err != nil {
		return nil, 0, err
	}
	return s.Search.Search(ctx, q, p.Offset, p.Limit)
}

func (s *RestaurantService) upserted(ctx context.Context, id string) {
	publish(ctx, s.Events, s.Logger, helpers.Event{Type: helpers.EventRestaurantUpserted, RestaurantID: id})
}
