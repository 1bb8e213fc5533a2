package application

import "github.com/oksasatya/restaurant-review-api/internal/domain/apperror"

const (
	DefaultPageSize      = 10
	DefaultAdminPageSize = 100
	MaxPageSize          = 100
)

// Page is a validated offset/limit pair.
type Page struct {
	Offset int
	Limit  int
}

// NewPage applies def when limit is 0 and caps limit at MaxPageSize.
func NewPage(offset, limit, def int) (Page, error) {
	if offset < 0 {
		return Page{}, apperror.Invalid("offset", "must be greater than or equal to 0")
	}
	if limit < 0 {
		return Page{}, apperror.Invalid("limit", "must be greater than or equal to 0")
	}
	if limit == 0 {
		limit = def
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Offset: offset, Limit: limit}, nil
}
