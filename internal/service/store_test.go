package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/occupancy"
	"github.com/Eursukkul/homestay-service/internal/repository"
	"gorm.io/gorm"
)

// --- In-memory store backing the repository fakes ---

type memStore struct {
	mu       sync.Mutex
	houses   map[uint]models.House
	rooms    map[uint]models.Room
	bookings map[uint]models.Booking
	counters map[string]int64
	nextID   uint

	// hooks
	createBookingErr   error
	createRoomErr      error
	createHouseErr     error
	updateOccupancyErr map[uint]error
	findActiveErr      error
	occupancyWrites    []uint
	// afterFindBooking runs after an unlocked booking read returns, the window
	// in which another writer can commit.
	afterFindBooking func(b models.Booking)
}

func newMemStore() *memStore {
	return &memStore{
		houses:             map[uint]models.House{},
		rooms:              map[uint]models.Room{},
		bookings:           map[uint]models.Booking{},
		counters:           map[string]int64{},
		updateOccupancyErr: map[uint]error{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) addHouse(code string) models.House {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := models.House{ID: s.id(), Code: code, Name: "House " + code}
	s.houses[h.ID] = h
	return h
}

func (s *memStore) addRoom(houseID uint, code string) models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := models.Room{
		ID:             s.id(),
		HouseID:        houseID,
		Code:           code,
		CodeNormalized: models.NormalizeRoomCode(code),
		Name:           code,
		Type:           models.RoomTypeStandard,
		State:          models.RoomStateActive,
	}
	s.rooms[r.ID] = r
	return r
}

func (s *memStore) room(id uint) models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[id]
}

func (s *memStore) setAfterFindBooking(hook func(b models.Booking)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.afterFindBooking = hook
}

func (s *memStore) moveBooking(id, roomID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bookings[id]
	b.RoomID = roomID
	s.bookings[id] = b
}

func (s *memStore) booking(id uint) models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

func (s *memStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// Transaction rolls the whole store back when fn fails.
func (s *memStore) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	bookings := make(map[uint]models.Booking, len(s.bookings))
	for k, v := range s.bookings {
		bookings[k] = v
	}
	counters := make(map[string]int64, len(s.counters))
	for k, v := range s.counters {
		counters[k] = v
	}
	s.mu.Unlock()

	if err := fn(nil); err != nil {
		s.mu.Lock()
		s.bookings = bookings
		s.counters = counters
		s.mu.Unlock()
		return err
	}
	return nil
}

type fakeHouseRepo struct{ s *memStore }

func (r fakeHouseRepo) Create(ctx context.Context, house *models.House) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createHouseErr != nil {
		return r.s.createHouseErr
	}
	house.ID = r.s.id()
	r.s.houses[house.ID] = *house
	return nil
}

func (r fakeHouseRepo) FindByID(ctx context.Context, id uint) (*models.House, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.houses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &h, nil
}

func (r fakeHouseRepo) FindAll(ctx context.Context) ([]models.House, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.House, 0, len(r.s.houses))
	for _, h := range r.s.houses {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeHouseRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.House, error) {
	all, _ := r.FindAll(ctx)
	var out []models.House
	for _, h := range all {
		for _, id := range ids {
			if h.ID == id {
				out = append(out, h)
			}
		}
	}
	return out, nil
}

type fakeRoomRepo struct{ s *memStore }

func (r fakeRoomRepo) Create(ctx context.Context, room *models.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createRoomErr != nil {
		return r.s.createRoomErr
	}
	room.ID = r.s.id()
	r.s.rooms[room.ID] = *room
	return nil
}

func (r fakeRoomRepo) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &room, nil
}

func (r fakeRoomRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error) {
	return r.FindByID(ctx, id)
}

func (r fakeRoomRepo) FindAll(ctx context.Context, filter repository.RoomFilter) ([]models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Room
	for _, room := range r.s.rooms {
		if len(filter.HouseIDs) > 0 && !containsID(filter.HouseIDs, room.HouseID) {
			continue
		}
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeRoomRepo) ExistsCode(ctx context.Context, houseID uint, normalized string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, room := range r.s.rooms {
		if room.HouseID == houseID && room.CodeNormalized == normalized {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeRoomRepo) FindAvailable(ctx context.Context, houseID uint, window occupancy.Window) ([]models.Room, error) {
	rooms, _ := r.FindAll(ctx, repository.RoomFilter{HouseIDs: []uint{houseID}})
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Room
	for _, room := range rooms {
		if room.State != models.RoomStateActive {
			continue
		}
		free := true
		for _, b := range r.s.bookings {
			if b.RoomID == room.ID && b.Status != models.StatusCancelled && b.Window().Overlaps(window) {
				free = false
				break
			}
		}
		if free {
			out = append(out, room)
		}
	}
	return out, nil
}

func (r fakeRoomRepo) UpdateOccupancy(ctx context.Context, id uint, status occupancy.Status, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.updateOccupancyErr[id]; err != nil {
		return err
	}
	room := r.s.rooms[id]
	room.IsBooked = status.Booked
	room.IsOccupied = status.Occupied
	room.StatusUpdatedAt = &at
	r.s.rooms[id] = room
	r.s.occupancyWrites = append(r.s.occupancyWrites, id)
	return nil
}

func (r fakeRoomRepo) SetDirty(ctx context.Context, id uint, dirty bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return 0, nil
	}
	room.IsDirty = dirty
	r.s.rooms[id] = room
	return 1, nil
}

func (r fakeRoomRepo) Delete(ctx context.Context, id uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rooms[id]; !ok {
		return 0, nil
	}
	delete(r.s.rooms, id)
	return 1, nil
}

type fakeBookingRepo struct{ s *memStore }

func (r fakeBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createBookingErr != nil {
		return r.s.createBookingErr
	}
	for _, b := range r.s.bookings {
		if b.OrderCode == booking.OrderCode {
			panic("duplicate order code " + b.OrderCode)
		}
	}
	booking.ID = r.s.id()
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r fakeBookingRepo) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r fakeBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := r.find(id)
	r.s.mu.Lock()
	hook := r.s.afterFindBooking
	r.s.mu.Unlock()
	if err == nil && hook != nil {
		hook(*b)
	}
	return b, err
}

func (r fakeBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	return r.find(id)
}

func (r fakeBookingRepo) find(id uint) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r fakeBookingRepo) HasOverlap(ctx context.Context, tx *gorm.DB, roomID uint, window occupancy.Window, excludeID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.ID == excludeID || b.RoomID != roomID || b.Status == models.StatusCancelled {
			continue
		}
		if b.Window().Overlaps(window) {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeBookingRepo) FindActive(ctx context.Context, now time.Time) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.findActiveErr != nil {
		return nil, r.s.findActiveErr
	}
	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.Status != models.StatusCancelled && !b.CheckOut.Before(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r fakeBookingRepo) FindAll(ctx context.Context, f repository.BookingFilter) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Booking
	for _, b := range r.s.bookings {
		switch {
		case len(f.HouseIDs) > 0 && !containsID(f.HouseIDs, b.HouseID),
			f.RoomID != nil && b.RoomID != *f.RoomID,
			f.Status != nil && b.Status != *f.Status,
			f.ExcludeCancelled && b.Status == models.StatusCancelled,
			f.CheckInFrom != nil && b.CheckIn.Before(*f.CheckInFrom),
			f.CheckInBefore != nil && !b.CheckIn.Before(*f.CheckInBefore),
			f.CheckOutFrom != nil && b.CheckOut.Before(*f.CheckOutFrom),
			f.CheckOutBefore != nil && !b.CheckOut.Before(*f.CheckOutBefore):
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeCounterRepo struct{ s *memStore }

func (r fakeCounterRepo) Next(ctx context.Context, tx *gorm.DB, key string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.counters[key]++
	return r.s.counters[key], nil
}

type published struct {
	key     string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *fakePublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: routingKey, payload: payload})
	return p.err
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func intp(v int) *int           { return &v }
func strp(v string) *string     { return &v }
func floatp(v float64) *float64 { return &v }
