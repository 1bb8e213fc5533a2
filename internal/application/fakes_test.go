package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	repo "github.com/oksasatya/restaurant-review-api/internal/domain/repository"
	"github.com/oksasatya/restaurant-review-api/internal/domain/scope"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

type memStore struct {
	mu          sync.Mutex
	seq         int
	clock       time.Time
	users       map[string]*entity.User
	scopes      []entity.SecurityScope
	restaurants map[string]*entity.Restaurant
	reviews     []entity.Review
}

func newMemStore() *memStore {
	return &memStore{
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:       map[string]*entity.User{},
		restaurants: map[string]*entity.Restaurant{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type fakeUsers struct{ *memStore }

func (f fakeUsers) byName(username string) *entity.User {
	for _, u := range f.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (f fakeUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u := f.byName(username); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.ErrNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.ErrNotFound
}

func (f fakeUsers) grant(names []string) []entity.SecurityScope {
	var out []entity.SecurityScope
	for _, s := range f.scopes {
		for _, n := range names {
			if s.Name == n {
				out = append(out, s)
			}
		}
	}
	return out
}

func (f fakeUsers) CreateOrUpdate(_ context.Context, in repo.UserUpsert) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byName(in.Username)
	if u == nil {
		u = &entity.User{ID: f.nextID("user"), Username: in.Username, CreatedAt: f.tick()}
		f.users[u.ID] = u
	}
	u.PasswordHash = in.PasswordHash
	if in.Disabled != nil {
		u.Disabled = *in.Disabled
	}
	u.Scopes = f.grant(in.Scopes)
	cp := *u
	return &cp, nil
}

func (f fakeUsers) Signup(_ context.Context, username, hash string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byName(username) != nil {
		return nil, fmt.Errorf("insert user: %w", apperror.ErrConflict)
	}
	u := &entity.User{ID: f.nextID("user"), Username: username, PasswordHash: hash, CreatedAt: f.tick()}
	u.Scopes = f.grant([]string{string(scope.UsersMe)})
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f fakeUsers) Delete(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	delete(f.users, id)
	return u, nil
}

func (f fakeUsers) List(_ context.Context, offset, limit int) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []entity.User
	for _, u := range f.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return page(all, offset, limit), nil
}

func (f fakeUsers) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

type fakeScopes struct{ *memStore }

func (f fakeScopes) EnsureScopes(_ context.Context, defs []scope.Definition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range defs {
		found := false
		for _, s := range f.scopes {
			found = found || s.Name == string(d.Name)
		}
		if !found {
			f.scopes = append(f.scopes, entity.SecurityScope{ID: f.nextID("scope"), Name: string(d.Name), Description: d.Description})
		}
	}
	return nil
}

func (f fakeScopes) List(_ context.Context, offset, limit int) ([]entity.SecurityScope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(append([]entity.SecurityScope(nil), f.scopes...), offset, limit), nil
}

type fakeRestaurants struct{ *memStore }

func (f fakeRestaurants) Create(_ context.Context, r *entity.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.nextID("rest")
	r.CreatedAt = f.tick()
	cp := *r
	f.restaurants[r.ID] = &cp
	return nil
}

func (f fakeRestaurants) GetByID(_ context.Context, id string) (*entity.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.restaurants[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f fakeRestaurants) Update(_ context.Context, u entity.RestaurantUpdate) (*entity.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.restaurants[u.ID]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	r.Name, r.Description, r.Country, r.PostalCode = u.Name, u.Description, u.Country, u.PostalCode
	r.Address, r.Webpage, r.PhoneNumber = u.Address, u.Webpage, u.PhoneNumber
	if u.Disabled != nil {
		r.Disabled = *u.Disabled
	}
	if u.AvgRating != nil {
		r.AvgRating = *u.AvgRating
	}
	cp := *r
	return &cp, nil
}

func (f fakeRestaurants) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.restaurants[id]; !ok {
		return apperror.ErrNotFound
	}
	delete(f.restaurants, id)
	return nil
}

func (f fakeRestaurants) matching(flt entity.RestaurantFilter) []entity.Restaurant {
	var out []entity.Restaurant
	for _, r := range f.restaurants {
		if flt.Country != "" && r.Country != flt.Country {
			continue
		}
		if flt.PostalCode != "" && r.PostalCode != flt.PostalCode {
			continue
		}
		if flt.Name != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(flt.Name)) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f fakeRestaurants) List(ctx context.Context, offset, limit int) ([]entity.Restaurant, error) {
	return f.Find(ctx, entity.RestaurantFilter{}, offset, limit)
}

func (f fakeRestaurants) Find(_ context.Context, flt entity.RestaurantFilter, offset, limit int) ([]entity.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.matching(flt), offset, limit), nil
}

func (f fakeRestaurants) Count(_ context.Context, flt entity.RestaurantFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matching(flt))), nil
}

func (f fakeRestaurants) SetPhotoURL(_ context.Context, id, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.restaurants[id]
	if !ok {
		return apperror.ErrNotFound
	}
	r.PhotoURL = url
	return nil
}

type fakeReviews struct{ *memStore }

func (f fakeReviews) Create(_ context.Context, restaurantID, userID string, rating int, text string) (*entity.Review, *entity.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.restaurants[restaurantID]
	if !ok {
		return nil, nil, fmt.Errorf("lock restaurant: %w", apperror.ErrNotFound)
	}
	var stats entity.RatingStats
	for _, rv := range f.reviews {
		if rv.RestaurantID == restaurantID {
			stats = stats.Add(rv.Rating)
		}
	}
	rv := entity.Review{ID: f.nextID("review"), RestaurantID: restaurantID, UserID: userID, Rating: rating, Review: text, CreatedAt: f.tick()}
	f.reviews = append(f.reviews, rv)
	r.AvgRating = stats.Add(rating).AvgRating()
	cp := *r
	return &rv, &cp, nil
}

func (f fakeReviews) of(restaurantID string, rating int) []entity.Review {
	var out []entity.Review
	for _, rv := range f.reviews {
		if rv.RestaurantID != restaurantID {
			continue
		}
		if entity.ValidRating(rating) && rv.Rating != rating {
			continue
		}
		out = append(out, rv)
	}
	return out
}

func (f fakeReviews) List(_ context.Context, restaurantID string, rating, offset, limit int) ([]entity.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f.of(restaurantID, rating), offset, limit), nil
}

func (f fakeReviews) Count(_ context.Context, restaurantID string, rating int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.of(restaurantID, rating))), nil
}

func (f fakeReviews) pick(restaurantID string, less func(a, b entity.Review) bool) *entity.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.of(restaurantID, 0)
	if len(all) == 0 {
		return nil
	}
	sort.SliceStable(all, func(i, j int) bool { return less(all[i], all[j]) })
	return &all[0]
}

func (f fakeReviews) Best(_ context.Context, id string) (*entity.Review, error) {
	return f.pick(id, func(a, b entity.Review) bool {
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}), nil
}

func (f fakeReviews) Worst(_ context.Context, id string) (*entity.Review, error) {
	return f.pick(id, func(a, b entity.Review) bool {
		if a.Rating != b.Rating {
			return a.Rating < b.Rating
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}), nil
}

func (f fakeReviews) Last(_ context.Context, id string) (*entity.Review, error) {
	return f.pick(id, func(a, b entity.Review) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

type fakePublisher struct {
	mu     sync.Mutex
	events []helpers.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev helpers.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func (r *fakeRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.revoked == nil {
		r.revoked = map[string]time.Time{}
	}
	r.revoked[jti] = until
	return nil
}

func (r *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[jti]
	return ok, nil
}

type fakeUploader struct {
	path string
	body string
	err  error
}

func (u *fakeUploader) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.path, u.body = objectPath, string(b)
	return helpers.PublicURL("bucket", objectPath), nil
}

var errBrokerDown = errors.New("broker down")
