package entity

import "math"

// RatingStats is the exact aggregate of a restaurant's review ratings.
// The mean is always derived from Sum and Count so repeated inserts do not
// accumulate rounding drift.
type RatingStats struct {
	Count int64
	Sum   int64
}

// Add returns the stats with one more rating folded in.
func (s RatingStats) Add(rating int) RatingStats {
	return RatingStats{Count: s.Count + 1, Sum: s.Sum + int64(rating)}
}

// Mean is the arithmetic mean of the ratings, or 0 with no ratings.
func (s RatingStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// AvgRating is Mean rounded to the one decimal stored in restaurants.avg_rating.
func (s RatingStats) AvgRating() float64 {
	return RoundRating(s.Mean())
}

// RoundRating rounds half away from zero to one decimal place, as NUMERIC(2,1) does.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
