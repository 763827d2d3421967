package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/homestay-service/internal/events"
	"github.com/Eursukkul/homestay-service/internal/locker"
	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/occupancy"
	"github.com/Eursukkul/homestay-service/internal/repository"
	"gorm.io/gorm"
)

type CreateBookingInput struct {
	RoomID         uint
	CustomerName   string
	CustomerPhone  string
	CheckInDate    string
	CheckInHour    *int
	CheckInMinute  *int
	CheckOutDate   string
	CheckOutHour   *int
	CheckOutMinute *int
	Price          *float64
	Source         string
	PaymentStatus  string
	Note           string
}

// UpdateBookingInput is a partial update; nil fields are left unchanged.
type UpdateBookingInput struct {
	RoomID         *uint
	CustomerName   *string
	CustomerPhone  *string
	CheckInDate    *string
	CheckInHour    *int
	CheckInMinute  *int
	CheckOutDate   *string
	CheckOutHour   *int
	CheckOutMinute *int
	Price          *float64
	Source         *string
	PaymentStatus  *string
	Note           *string
	Status         *string
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id uint, in UpdateBookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, id uint) (*models.Booking, error)
	TransitionBooking(ctx context.Context, id uint, to models.BookingStatus) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error)
	CheckOverlap(ctx context.Context, roomID uint, window occupancy.Window, excludeID uint) (bool, error)
}

type bookingService struct {
	tx          repository.TxRunner
	roomRepo    repository.RoomRepository
	bookingRepo repository.BookingRepository
	counterRepo repository.CounterRepository
	locks       locker.Locker
	publisher   EventPublisher
	defaults    StayDefaults
	clock       Clock
}

func NewBookingService(
	tx repository.TxRunner,
	roomRepo repository.RoomRepository,
	bookingRepo repository.BookingRepository,
	counterRepo repository.CounterRepository,
	locks locker.Locker,
	publisher EventPublisher,
	defaults StayDefaults,
	clock Clock,
) BookingService {
	if locks == nil {
		locks = locker.NewLocal()
	}
	return &bookingService{
		tx:          tx,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		counterRepo: counterRepo,
		locks:       locks,
		publisher:   publisher,
		defaults:    defaults,
		clock:       clock,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	loc := s.defaults.location()
	verr := &ValidationError{}

	if in.RoomID == 0 {
		verr.Add("roomId", "is required")
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		verr.Add("customerName", "is required")
	}
	checkIn, err := resolveStayTime(in.CheckInDate, in.CheckInHour, in.CheckInMinute, s.defaults.CheckInHour, 0, loc)
	if err != nil {
		verr.Add("checkInDate", err.Error())
	}
	checkOut, err := resolveStayTime(in.CheckOutDate, in.CheckOutHour, in.CheckOutMinute, s.defaults.CheckOutHour, 0, loc)
	if err != nil {
		verr.Add("checkOutDate", err.Error())
	}
	window := occupancy.Window{CheckIn: checkIn, CheckOut: checkOut}
	if !checkIn.IsZero() && !checkOut.IsZero() && !window.Valid() {
		verr.Add("checkOutDate", "must be after check-in")
	}

	price := 0.0
	if in.Price != nil {
		price = *in.Price
		if price < 0 {
			verr.Add("price", "must not be negative")
		}
	}
	payment := models.PaymentUnpaid
	if p := strings.TrimSpace(in.PaymentStatus); p != "" {
		payment = models.PaymentStatus(strings.ToLower(p))
		if !models.ValidPaymentStatus(payment) {
			verr.Add("paymentStatus", "must be one of unpaid, deposit, paid")
		}
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = "direct"
	}
	if verr.HasErrors() {
		return nil, verr
	}

	unlock, err := s.locks.Lock(ctx, locker.RoomKey(in.RoomID))
	if err != nil {
		return nil, fmt.Errorf("lock room %d: %w", in.RoomID, err)
	}
	defer unlock()

	var created *models.Booking
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		// 1. Lock the room row so concurrent writers for this room queue up here
		room, err := s.roomRepo.FindByIDForUpdate(ctx, tx, in.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("find room %d: %w", in.RoomID, err)
		}

		// 2. Overlap guard
		overlap, err := s.bookingRepo.HasOverlap(ctx, tx, room.ID, window, 0)
		if err != nil {
			return fmt.Errorf("check overlap: %w", err)
		}
		if overlap {
			return ErrBookingOverlap
		}

		// 3. Mint order code
		seq, err := s.counterRepo.Next(ctx, tx, orderCounterKey(room.HouseID))
		if err != nil {
			return fmt.Errorf("next order code: %w", err)
		}

		booking := &models.Booking{
			HouseID:       room.HouseID,
			RoomID:        room.ID,
			OrderCode:     formatOrderCode(s.defaults.OrderPrefix, seq),
			OrderSeq:      seq,
			CustomerName:  name,
			CustomerPhone: strings.TrimSpace(in.CustomerPhone),
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			Status:        models.StatusPending,
			Price:         price,
			PaymentStatus: payment,
			Note:          strings.TrimSpace(in.Note),
			Source:        source,
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return translateBookingWrite(err)
		}
		created = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(s.publisher, events.BookingCreated, s.bookingEvent(events.BookingCreated, created))
	return created, nil
}

// updateAttempts bounds the retries when the booking changes room between the
// unlocked read and the locked transaction.
const updateAttempts = 3

func (s *bookingService) UpdateBooking(ctx context.Context, id uint, in UpdateBookingInput) (*models.Booking, error) {
	var target *models.BookingStatus
	if in.Status != nil {
		st, ok := models.ParseBookingStatus(*in.Status)
		if !ok {
			return nil, invalid("status", "is not a known booking status")
		}
		if st == models.StatusCancelled {
			return s.CancelBooking(ctx, id)
		}
		target = &st
	}
	if in.RoomID != nil && *in.RoomID == 0 {
		return nil, invalid("roomId", "must not be empty")
	}

	for attempt := 1; ; attempt++ {
		updated, err := s.updateOnce(ctx, id, in, target)
		if errors.Is(err, errRoomMoved) {
			if attempt < updateAttempts {
				continue
			}
			return nil, ErrConcurrentUpdate
		}
		if err != nil {
			return nil, err
		}
		publish(s.publisher, events.BookingUpdated, s.bookingEvent(events.BookingUpdated, updated))
		return updated, nil
	}
}

// updateOnce locks the rooms seen by an unlocked read, then applies the patch
// in one transaction. It returns errRoomMoved when the booking changed room in
// between, since the room the patch lands in would then be unlocked.
func (s *bookingService) updateOnce(ctx context.Context, id uint, in UpdateBookingInput, target *models.BookingStatus) (*models.Booking, error) {
	current, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking %d: %w", id, err)
	}

	lockedRoom := current.RoomID
	if in.RoomID != nil {
		lockedRoom = *in.RoomID
	}
	unlock, err := locker.LockAll(ctx, s.locks, locker.RoomKey(current.RoomID), locker.RoomKey(lockedRoom))
	if err != nil {
		return nil, fmt.Errorf("lock rooms: %w", err)
	}
	defer unlock()

	now := s.clock.now()
	var updated *models.Booking
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		b, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.Status.Terminal() {
			return ErrBookingClosed
		}
		roomID := b.RoomID
		if in.RoomID != nil {
			roomID = *in.RoomID
		}
		if roomID != lockedRoom {
			return errRoomMoved
		}
		if target != nil && *target != b.Status && !models.CanTransition(b.Status, *target) {
			return ErrInvalidTransition
		}

		window, verr := s.mergeWindow(b, in)
		if verr.HasErrors() {
			return verr
		}
		if err := applyFields(b, in); err != nil {
			return err
		}

		if roomID != b.RoomID || !window.CheckIn.Equal(b.CheckIn) || !window.CheckOut.Equal(b.CheckOut) {
			room, err := s.roomRepo.FindByIDForUpdate(ctx, tx, roomID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRoomNotFound
				}
				return fmt.Errorf("find room %d: %w", roomID, err)
			}
			overlap, err := s.bookingRepo.HasOverlap(ctx, tx, room.ID, window, b.ID)
			if err != nil {
				return fmt.Errorf("check overlap: %w", err)
			}
			if overlap {
				return ErrBookingOverlap
			}
			b.RoomID = room.ID
			b.HouseID = room.HouseID
			b.CheckIn = window.CheckIn
			b.CheckOut = window.CheckOut
		}

		if target != nil {
			applyStatus(b, *target, now)
		}
		if err := s.bookingRepo.Save(ctx, tx, b); err != nil {
			return translateBookingWrite(err)
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelBooking is the soft delete: the row stays, its status becomes cancelled.
func (s *bookingService) CancelBooking(ctx context.Context, id uint) (*models.Booking, error) {
	now := s.clock.now()
	var result *models.Booking
	changed := false

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		b, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		result = b
		if b.Status == models.StatusCancelled {
			return nil
		}
		if !models.CanTransition(b.Status, models.StatusCancelled) {
			return ErrInvalidTransition
		}
		applyStatus(b, models.StatusCancelled, now)
		if err := s.bookingRepo.Save(ctx, tx, b); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		publish(s.publisher, events.BookingCancelled, s.bookingEvent(events.BookingCancelled, result))
	}
	return result, nil
}

func (s *bookingService) TransitionBooking(ctx context.Context, id uint, to models.BookingStatus) (*models.Booking, error) {
	status := string(to)
	return s.UpdateBooking(ctx, id, UpdateBookingInput{Status: &status})
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *bookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	return s.bookingRepo.FindAll(ctx, filter)
}

// CheckOverlap is the read-only guard. Callers that go on to write must hold
// the room lock; CreateBooking and UpdateBooking do.
func (s *bookingService) CheckOverlap(ctx context.Context, roomID uint, window occupancy.Window, excludeID uint) (bool, error) {
	if !window.Valid() {
		return false, invalid("checkOut", "must be after check-in")
	}
	var overlap bool
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		overlap, err = s.bookingRepo.HasOverlap(ctx, tx, roomID, window, excludeID)
		return err
	})
	return overlap, err
}

// mergeWindow overlays the provided date/hour/minute fields on the booking's
// current window, in the configured location.
func (s *bookingService) mergeWindow(b *models.Booking, in UpdateBookingInput) (occupancy.Window, *ValidationError) {
	loc := s.defaults.location()
	verr := &ValidationError{}
	window := b.Window()

	merge := func(field string, current time.Time, date *string, hour, minute *int) time.Time {
		if date == nil && hour == nil && minute == nil {
			return current
		}
		local := current.In(loc)
		d := local.Format(dateLayout)
		if date != nil {
			d = *date
		}
		t, err := resolveStayTime(d, hour, minute, local.Hour(), local.Minute(), loc)
		if err != nil {
			verr.Add(field, err.Error())
			return current
		}
		return t
	}

	window.CheckIn = merge("checkInDate", window.CheckIn, in.CheckInDate, in.CheckInHour, in.CheckInMinute)
	window.CheckOut = merge("checkOutDate", window.CheckOut, in.CheckOutDate, in.CheckOutHour, in.CheckOutMinute)
	if !verr.HasErrors() && !window.Valid() {
		verr.Add("checkOutDate", "must be after check-in")
	}
	return window, verr
}

func applyFields(b *models.Booking, in UpdateBookingInput) error {
	verr := &ValidationError{}
	if in.CustomerName != nil {
		name := strings.TrimSpace(*in.CustomerName)
		if name == "" {
			verr.Add("customerName", "must not be empty")
		}
		b.CustomerName = name
	}
	if in.CustomerPhone != nil {
		b.CustomerPhone = strings.TrimSpace(*in.CustomerPhone)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			verr.Add("price", "must not be negative")
		}
		b.Price = *in.Price
	}
	if in.PaymentStatus != nil {
		p := models.PaymentStatus(strings.ToLower(strings.TrimSpace(*in.PaymentStatus)))
		if !models.ValidPaymentStatus(p) {
			verr.Add("paymentStatus", "must be one of unpaid, deposit, paid")
		}
		b.PaymentStatus = p
	}
	if in.Source != nil {
		if src := strings.TrimSpace(*in.Source); src != "" {
			b.Source = src
		}
	}
	if in.Note != nil {
		b.Note = strings.TrimSpace(*in.Note)
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// applyStatus moves the booking to a new lifecycle state. Checking out before
// the planned departure shortens the stay so the room frees up immediately.
func applyStatus(b *models.Booking, to models.BookingStatus, now time.Time) {
	b.Status = to
	switch to {
	case models.StatusCancelled:
		b.CancelledAt = &now
	case models.StatusCheckedOut:
		if now.After(b.CheckIn) && now.Before(b.CheckOut) {
			b.CheckOut = now
		}
	}
}

func translateBookingWrite(err error) error {
	switch pgCode(err) {
	case pgExclusionViolation:
		return ErrBookingOverlap
	}
	return fmt.Errorf("save booking: %w", err)
}

func (s *bookingService) bookingEvent(kind string, b *models.Booking) events.BookingEvent {
	return events.BookingEvent{
		Type:       kind,
		BookingID:  b.ID,
		OrderCode:  b.OrderCode,
		HouseID:    b.HouseID,
		RoomID:     b.RoomID,
		Status:     string(b.Status),
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		OccurredAt: s.clock.now(),
	}
}
