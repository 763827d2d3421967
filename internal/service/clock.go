package service

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Clock supplies the reference time for reconciliation and lifecycle stamps.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// EventPublisher emits domain events. Delivery is best effort.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

func publish(p EventPublisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(routingKey, payload); err != nil {
		logrus.WithError(err).WithField("routing_key", routingKey).Warn("failed to publish event")
	}
}
