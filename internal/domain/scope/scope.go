// Package scope defines the closed set of authorization scopes and the
// set arithmetic used to authorize requests.
package scope

import (
	"sort"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
)

// Name is a permission string a caller must hold to perform an operation.
type Name string

const (
	UsersMe    Name = "users:me"
	UsersRead  Name = "users:read"
	UsersWrite Name = "users:write"
)

// Definition pairs a scope with its human readable description.
type Definition struct {
	Name        Name
	Description string
}

// Definitions is the bootstrap catalogue, in display order.
var Definitions = []Definition{
	{Name: UsersMe, Description: "Read data about the currently logged in user."},
	{Name: UsersRead, Description: "Read data about users."},
	{Name: UsersWrite, Description: "Create, update and delete users."},
}

// Known reports whether n is part of the catalogue.
func Known(n Name) bool {
	for _, d := range Definitions {
		if d.Name == n {
			return true
		}
	}
	return false
}

// Set is an unordered collection of scope names.
type Set map[Name]struct{}

func NewSet(names ...Name) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// FromStrings builds a Set from raw claim values.
func FromStrings(raw []string) Set {
	s := make(Set, len(raw))
	for _, r := range raw {
		s[Name(r)] = struct{}{}
	}
	return s
}

func (s Set) Has(n Name) bool {
	_, ok := s[n]
	return ok
}

// Strings returns the members sorted, for stable claims and responses.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, string(n))
	}
	sort.Strings(out)
	return out
}

// Missing returns required - s, keeping the order of required.
func (s Set) Missing(required ...Name) []Name {
	var missing []Name
	for _, r := range required {
		if !s.Has(r) {
			missing = append(missing, r)
		}
	}
	return missing
}

// Require fails with *apperror.MissingScopesError unless every required
// scope is in have. An empty requirement always passes.
func Require(have Set, required ...Name) error {
	missing := have.Missing(required...)
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, m := range missing {
		names[i] = string(m)
	}
	return &apperror.MissingScopesError{Missing: names}
}
