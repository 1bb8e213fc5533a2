package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/restaurant-review-api/pkg/helpers"
)

// publish sends ev without failing the caller; the write it describes is
// already committed.
func publish(ctx context.Context, events EventPublisher, logger logrus.FieldLogger, ev helpers.Event) {
	if events == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.OccurredAt = time.Now().UTC()

	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := events.Publish(c, ev); err != nil {
		helpers.LogError(logger, "publish event failed", err, logrus.Fields{
			"event_type":    ev.Type,
			"restaurant_id": ev.RestaurantID,
		})
	}
}
