package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Eursukkul/homestay-service/internal/events"
	"github.com/Eursukkul/homestay-service/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

// fakeAck is touched from the consumer goroutine in TestStart_DrainsChannel.
type fakeAck struct {
	acked   atomic.Bool
	nacked  atomic.Bool
	requeue atomic.Bool
}

func (a *fakeAck) Ack(tag uint64, multiple bool) error {
	a.acked.Store(true)
	return nil
}

func (a *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked.Store(true)
	a.requeue.Store(requeue)
	return nil
}

func (a *fakeAck) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type fakeReconciler struct {
	calls atomic.Int32
	err   error
}

func (f *fakeReconciler) Reconcile(ctx context.Context) (service.ReconcileReport, error) {
	f.calls.Add(1)
	return service.ReconcileReport{Rooms: 3, Updated: 1}, f.err
}

func delivery(t *testing.T, body []byte, redelivered bool) (amqp.Delivery, *fakeAck) {
	t.Helper()
	ack := &fakeAck{}
	return amqp.Delivery{
		Acknowledger: ack,
		RoutingKey:   events.BookingCreated,
		Body:         body,
		Redelivered:  redelivered,
	}, ack
}

func bookingEventBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(events.BookingEvent{
		Type:       events.BookingCreated,
		BookingID:  7,
		RoomID:     3,
		CheckIn:    time.Date(2026, 1, 10, 14, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 1, 12, 12, 0, 0, 0, time.UTC),
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	return body
}

// --- Tests ---

func TestHandleMessage_ReconcilesAndAcks(t *testing.T) {
	rec := &fakeReconciler{}
	msg, ack := delivery(t, bookingEventBody(t), false)

	NewBookingConsumer(rec).handleMessage(msg)

	assert.Equal(t, int32(1), rec.calls.Load())
	assert.True(t, ack.acked.Load())
	assert.False(t, ack.nacked.Load())
}

func TestHandleMessage_MalformedIsDropped(t *testing.T) {
	for _, body := range [][]byte{[]byte("not json"), []byte(`{}`)} {
		rec := &fakeReconciler{}
		msg, ack := delivery(t, body, false)

		NewBookingConsumer(rec).handleMessage(msg)

		assert.Zero(t, rec.calls.Load())
		assert.True(t, ack.nacked.Load())
		assert.False(t, ack.requeue.Load())
	}
}

func TestHandleMessage_FailureRequeuesOnce(t *testing.T) {
	rec := &fakeReconciler{err: &service.ReconcileError{Failures: []service.RoomFailure{{RoomID: 3, Err: errors.New("deadlock")}}}}

	msg, ack := delivery(t, bookingEventBody(t), false)
	NewBookingConsumer(rec).handleMessage(msg)
	assert.True(t, ack.nacked.Load())
	assert.True(t, ack.requeue.Load())

	msg, ack = delivery(t, bookingEventBody(t), true)
	NewBookingConsumer(rec).handleMessage(msg)
	assert.True(t, ack.acked.Load())
	assert.False(t, ack.nacked.Load())
}

func TestStart_DrainsChannel(t *testing.T) {
	rec := &fakeReconciler{}
	msgs := make(chan amqp.Delivery, 2)
	m1, a1 := delivery(t, bookingEventBody(t), false)
	m2, a2 := delivery(t, bookingEventBody(t), false)
	msgs <- m1
	msgs <- m2
	close(msgs)

	NewBookingConsumer(rec).Start(msgs)

	assert.Eventually(t, func() bool { return a1.acked.Load() && a2.acked.Load() }, time.Second, 10*time.Millisecond)
}
