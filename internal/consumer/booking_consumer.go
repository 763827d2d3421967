package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Eursukkul/homestay-service/internal/events"
	"github.com/Eursukkul/homestay-service/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Reconciler is the part of the room service the consumer drives.
type Reconciler interface {
	Reconcile(ctx context.Context) (service.ReconcileReport, error)
}

// BookingConsumer refreshes room status whenever a booking event arrives,
// so rooms stay current between reads.
type BookingConsumer struct {
	rooms   Reconciler
	timeout time.Duration
	log     *logrus.Entry
}

func NewBookingConsumer(rooms Reconciler) *BookingConsumer {
	return &BookingConsumer{
		rooms:   rooms,
		timeout: 30 * time.Second,
		log:     logrus.WithField("component", "booking-consumer"),
	}
}

// Start handles deliveries until the channel closes.
func (bc *BookingConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			bc.handleMessage(msg)
		}
		bc.log.Info("channel closed, stopping consumer")
	}()
}

func (bc *BookingConsumer) handleMessage(msg amqp.Delivery) {
	var evt events.BookingEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil || evt.BookingID == 0 {
		bc.log.WithError(err).WithField("routing_key", msg.RoutingKey).Warn("dropping malformed booking event")
		_ = msg.Nack(false, false)
		return
	}
	log := bc.log.WithFields(logrus.Fields{
		"routing_key": msg.RoutingKey,
		"booking_id":  evt.BookingID,
		"room_id":     evt.RoomID,
	})

	ctx, cancel := context.WithTimeout(context.Background(), bc.timeout)
	defer cancel()

	report, err := bc.rooms.Reconcile(ctx)
	if err != nil {
		// one retry through the broker; after that the next read-path pass catches up
		if msg.Redelivered {
			log.WithError(err).Error("reconcile failed again, giving up on message")
			_ = msg.Ack(false)
			return
		}
		log.WithError(err).Warn("reconcile failed, requeueing")
		_ = msg.Nack(false, true)
		return
	}

	log.WithFields(logrus.Fields{"rooms": report.Rooms, "updated": report.Updated}).Debug("rooms reconciled")
	_ = msg.Ack(false)
}
