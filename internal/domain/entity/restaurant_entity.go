package entity

import "time"

// Restaurant owns the avg_rating aggregate; only the review writer changes it
// outside of a full record overwrite.
type Restaurant struct {
	ID          string
	Name        string
	Description string
	Country     string // ISO-3166 alpha-2
	PostalCode  string
	Address     string
	Webpage     string
	PhoneNumber string
	Disabled    bool
	AvgRating   float64
	PhotoURL    string
	CreatedAt   time.Time
}

// RestaurantFilter narrows listings and counts. Empty fields match everything.
type RestaurantFilter struct {
	Country    string
	PostalCode string
	Name       string // substring, case-insensitive
}

// RestaurantUpdate overwrites every editable column. Nil Disabled or
// AvgRating keep the stored value.
type RestaurantUpdate struct {
	ID          string
	Name        string
	Description string
	Country     string
	PostalCode  string
	Address     string
	Webpage     string
	PhoneNumber string
	Disabled    *bool
	AvgRating   *float64
}
