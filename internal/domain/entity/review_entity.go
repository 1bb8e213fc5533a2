package entity

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a single rating of a restaurant by a user.
// UserID is empty once the authoring user has been deleted.
type Review struct {
	ID           string
	RestaurantID string
	UserID       string
	Rating       int
	Review       string
	CreatedAt    time.Time
}

// ValidRating reports whether r is within [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Highlights are the featured reviews on a restaurant page. A review appears
// under at most one label.
type Highlights struct {
	Count int64
	Best  *Review
	Worst *Review
	Last  *Review
}
