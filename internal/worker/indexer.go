// Package worker consumes restaurant events and keeps the search index in
// step with Postgres.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/internal/domain/apperror"
	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
	repo "github.com/oksasatya/restaurant-review-api/internal/domain/repository"
	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
	"github.com/oksasatya/restaurant-review-api/pkg/mailer"
	mailtpl "github.com/oksasatya/restaurant-review-api/pkg/mailer/templates"
)

// Index is the write side of the restaurant search index.
type Index interface {
	Put(ctx context.Context, doc helpers.RestaurantDoc) error
	Delete(ctx context.Context, id string) error
}

var _ Index = (*helpers.RestaurantIndex)(nil)

// Indexer applies events to the index. Mail and NotifyTo are optional; when
// both are set every new review is announced to NotifyTo.
type Indexer struct {
	Restaurants repo.RestaurantRepository
	Index       Index
	Mail        mailer.Sender
	NotifyTo    string
	AppName     string
	Logger      logrus.FieldLogger
	Timeout     time.Duration
}

func toDoc(r *entity.Restaurant) helpers.RestaurantDoc {
	return helpers.RestaurantDoc{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Country:     r.Country,
		PostalCode:  r.PostalCode,
		Address:     r.Address,
		AvgRating:   r.AvgRating,
		Disabled:    r.Disabled,
	}
}

// Handle applies one event. Events for restaurants that no longer exist
// remove the document.
func (x *Indexer) Handle(ctx context.Context, ev helpers.Event) error {
	switch ev.Type {
	case helpers.EventRestaurantDeleted:
		return x.Index.Delete(ctx, ev.RestaurantID)
	case helpers.EventRestaurantUpserted, helpers.EventReviewCreated:
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}

	r, err := x.Restaurants.GetByID(ctx, ev.RestaurantID)
	if errors.Is(err, apperror.ErrNotFound) {
		return x.Index.Delete(ctx, ev.RestaurantID)
	}
	if err != nil {
		return fmt.Errorf("load restaurant: %w", err)
	}
	if err := x.Index.Put(ctx, toDoc(r)); err != nil {
		return fmt.Errorf("index restaurant: %w", err)
	}
	if ev.Type == helpers.EventReviewCreated {
		x.notify(ctx, ev, r)
	}
	return nil
}

// notify failures are logged only; the index is already up to date.
func (x *Indexer) notify(ctx context.Context, ev helpers.Event, r *entity.Restaurant) {
	if x.Mail == nil || x.NotifyTo == "" {
		return
	}
	subject, text, html, err := mailtpl.Render(mailtpl.ReviewCreated, mailtpl.ReviewCreatedData{
		AppName:        x.AppName,
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
		ReviewID:       ev.ReviewID,
		Rating:         ev.Rating,
		AvgRating:      r.AvgRating,
		OccurredAt:     ev.OccurredAt,
	})
	if err != nil {
		helpers.LogError(x.Logger, "render review mail failed", err, logrus.Fields{"review_id": ev.ReviewID})
		return
	}
	if err := x.Mail.Send(ctx, x.NotifyTo, subject, text, html); err != nil {
		helpers.LogError(x.Logger, "send review mail failed", err, logrus.Fields{"review_id": ev.ReviewID})
	}
}

// Run consumes deliveries until ctx is done or the channel closes.
// Malformed messages are dropped, failed ones requeued once.
func (x *Indexer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			x.process(ctx, d)
		}
	}
}

func (x *Indexer) process(ctx context.Context, d amqp.Delivery) {
	var ev helpers.Event
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		helpers.LogError(x.Logger, "bad message", err, nil)
		_ = d.Nack(false, false)
		return
	}
	timeout := x.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fields := logrus.Fields{"event_id": ev.ID, "event_type": ev.Type, "restaurant_id": ev.RestaurantID}
	if err := x.Handle(c, ev); err != nil {
		helpers.LogError(x.Logger, "handle event failed", err, fields)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
	helpers.LogInfo(x.Logger, "event applied", fields)
}
