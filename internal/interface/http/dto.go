package handlers

import (
	"time"

	"github.com/oksasatya/restaurant-review-api/internal/application"
	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
)

type pageQuery struct {
	Offset int `form:"offset" binding:"min=0"`
	Limit  int `form:"limit" binding:"min=0"`
}

type idURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Disabled  bool      `json:"disabled"`
	Scopes    []string  `json:"scopes"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Disabled:  u.Disabled,
		Scopes:    u.ScopeNames(),
		CreatedAt: u.CreatedAt,
	}
}

type scopeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type restaurantResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Country     string    `json:"country"`
	PostalCode  string    `json:"postal_code"`
	Address     string    `json:"address"`
	Webpage     string    `json:"webpage"`
	PhoneNumber string    `json:"phone_number"`
	Disabled    bool      `json:"disabled"`
	AvgRating   float64   `json:"avg_rating"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRestaurantResponse(r *entity.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Country:     r.Country,
		PostalCode:  r.PostalCode,
		Address:     r.Address,
		Webpage:     r.Webpage,
		PhoneNumber: r.PhoneNumber,
		Disabled:    r.Disabled,
		AvgRating:   r.AvgRating,
		PhotoURL:    r.PhotoURL,
		CreatedAt:   r.CreatedAt,
	}
}

func toRestaurantList(items []entity.Restaurant) []restaurantResponse {
	out := make([]restaurantResponse, 0, len(items))
	for i := range items {
		out = append(out, toRestaurantResponse(&items[i]))
	}
	return out
}

type restaurantDetailResponse struct {
	restaurantResponse
	ReviewCount int64           `json:"review_count"`
	BestReview  *reviewResponse `json:"best_review"`
	WorstReview *reviewResponse `json:"worst_review"`
	LastReview  *reviewResponse `json:"last_review"`
}

func toRestaurantDetail(d *application.RestaurantDetail) restaurantDetailResponse {
	return restaurantDetailResponse{
		restaurantResponse: toRestaurantResponse(d.Restaurant),
		ReviewCount:        d.Count,
		BestReview:         toReviewPtr(d.Best),
		WorstReview:        toReviewPtr(d.Worst),
		LastReview:         toReviewPtr(d.Last),
	}
}

type reviewResponse struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	UserID       *string   `json:"user_id"`
	Rating       int       `json:"rating"`
	Review       string    `json:"review"`
	CreatedAt    time.Time `json:"created_at"`
}

func toReviewResponse(rv *entity.Review) reviewResponse {
	out := reviewResponse{
		ID:           rv.ID,
		RestaurantID: rv.RestaurantID,
		Rating:       rv.Rating,
		Review:       rv.Review,
		CreatedAt:    rv.CreatedAt,
	}
	if rv.UserID != "" {
		uid := rv.UserID
		out.UserID = &uid
	}
	return out
}

func toReviewPtr(rv *entity.Review) *reviewResponse {
	if rv == nil {
		return nil
	}
	out := toReviewResponse(rv)
	return &out
}
