package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/homestay-service/internal/events"
	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/occupancy"
	"github.com/Eursukkul/homestay-service/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	Rooms    int           `json:"rooms"`
	Updated  int           `json:"updated"`
	Failures []RoomFailure `json:"-"`
}

func (r ReconcileReport) Failed() int {
	return len(r.Failures)
}

type StatusCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Booked    int `json:"booked"`
	Occupied  int `json:"occupied"`
	Dirty     int `json:"dirty"`
}

func (c *StatusCounts) add(s occupancy.Status) {
	c.Total++
	if s.Available() {
		c.Available++
	}
	if s.Booked {
		c.Booked++
	}
	if s.Occupied {
		c.Occupied++
	}
	if s.Dirty {
		c.Dirty++
	}
}

type RoomMapFilter struct {
	HouseIDs []uint
	Status   *occupancy.Tag
	IsDirty  *bool
}

type HouseRooms struct {
	House  models.House
	Rooms  []models.Room
	Counts StatusCounts
}

type RoomMap struct {
	Houses    []HouseRooms
	Counts    StatusCounts
	Reconcile ReconcileReport
}

type RoomStats struct {
	StatusCounts
	Reconcile ReconcileReport
}

type CreateRoomInput struct {
	HouseID uint
	Code    string
	Name    string
	Type    string
	State   string
}

type RoomService interface {
	Reconcile(ctx context.Context) (ReconcileReport, error)
	SetDirty(ctx context.Context, id uint, dirty bool) (*models.Room, error)
	MarkStatus(ctx context.Context, id uint, status string) (*models.Room, ReconcileReport, error)
	RoomMap(ctx context.Context, filter RoomMapFilter) (*RoomMap, error)
	Stats(ctx context.Context, houseIDs []uint) (*RoomStats, error)
	Available(ctx context.Context, houseID uint, window occupancy.Window) ([]models.Room, error)
	CreateRoom(ctx context.Context, in CreateRoomInput) (*models.Room, error)
	GetRoom(ctx context.Context, id uint) (*models.Room, error)
	ListRooms(ctx context.Context, houseIDs []uint) ([]models.Room, error)
	DeleteRoom(ctx context.Context, id uint) error
}

type roomService struct {
	houseRepo   repository.HouseRepository
	roomRepo    repository.RoomRepository
	bookingRepo repository.BookingRepository
	publisher   EventPublisher
	clock       Clock
}

func NewRoomService(
	houseRepo repository.HouseRepository,
	roomRepo repository.RoomRepository,
	bookingRepo repository.BookingRepository,
	publisher EventPublisher,
	clock Clock,
) RoomService {
	return &roomService{
		houseRepo:   houseRepo,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		clock:       clock,
	}
}

// Reconcile recomputes booked/occupied for every room from the active bookings
// and persists the rooms whose status changed. Each room is one UPDATE; a failed
// room does not stop the pass and is reported through *ReconcileError.
func (s *roomService) Reconcile(ctx context.Context) (ReconcileReport, error) {
	now := s.clock.now()

	rooms, err := s.roomRepo.FindAll(ctx, repository.RoomFilter{})
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("load rooms: %w", err)
	}
	bookings, err := s.bookingRepo.FindActive(ctx, now)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("load active bookings: %w", err)
	}

	snapshots := make([]occupancy.RoomSnapshot, 0, len(rooms))
	for i := range rooms {
		snapshots = append(snapshots, occupancy.RoomSnapshot{ID: rooms[i].ID, Status: rooms[i].Status()})
	}
	active := make([]occupancy.ActiveBooking, 0, len(bookings))
	for i := range bookings {
		active = append(active, occupancy.ActiveBooking{RoomID: bookings[i].RoomID, Window: bookings[i].Window()})
	}

	next := occupancy.Reconcile(snapshots, active, now)

	report := ReconcileReport{Rooms: len(rooms)}
	for i := range rooms {
		r := &rooms[i]
		st := next[r.ID]
		if st.Booked == r.IsBooked && st.Occupied == r.IsOccupied {
			continue
		}
		if err := s.roomRepo.UpdateOccupancy(ctx, r.ID, st, now); err != nil {
			report.Failures = append(report.Failures, RoomFailure{RoomID: r.ID, Err: err})
			continue
		}
		report.Updated++
	}

	if len(report.Failures) > 0 {
		return report, &ReconcileError{Failures: report.Failures}
	}
	return report, nil
}

// refresh runs a pass ahead of a read. Partial failures are logged and handed
// back in the report; only a pass that could not run at all is an error.
func (s *roomService) refresh(ctx context.Context) (ReconcileReport, error) {
	report, err := s.Reconcile(ctx)
	if err == nil {
		return report, nil
	}
	var rerr *ReconcileError
	if errors.As(err, &rerr) {
		logrus.WithError(err).WithField("failed_rooms", len(rerr.Failures)).Warn("room status reconciliation incomplete")
		return report, nil
	}
	return report, err
}

func (s *roomService) SetDirty(ctx context.Context, id uint, dirty bool) (*models.Room, error) {
	if id == 0 {
		return nil, invalid("id", "must be a positive integer")
	}
	affected, err := s.roomRepo.SetDirty(ctx, id, dirty)
	if err != nil {
		return nil, fmt.Errorf("set dirty on room %d: %w", id, err)
	}
	if affected == 0 {
		return nil, ErrRoomNotFound
	}
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	publish(s.publisher, events.RoomDirtyChanged, events.RoomEvent{
		Type:       events.RoomDirtyChanged,
		RoomID:     room.ID,
		HouseID:    room.HouseID,
		IsDirty:    room.IsDirty,
		OccurredAt: s.clock.now(),
	})
	return room, nil
}

// MarkStatus accepts "dirty" or "clean", refreshes occupancy first, then sets
// the dirty flag.
func (s *roomService) MarkStatus(ctx context.Context, id uint, status string) (*models.Room, ReconcileReport, error) {
	if id == 0 {
		return nil, ReconcileReport{}, invalid("id", "must be a positive integer")
	}
	var dirty bool
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "dirty":
		dirty = true
	case "clean":
		dirty = false
	default:
		return nil, ReconcileReport{}, invalid("status", "must be dirty or clean")
	}

	report, err := s.refresh(ctx)
	if err != nil {
		return nil, report, err
	}
	room, err := s.SetDirty(ctx, id, dirty)
	if err != nil {
		return nil, report, err
	}
	return room, report, nil
}

func (s *roomService) RoomMap(ctx context.Context, filter RoomMapFilter) (*RoomMap, error) {
	report, err := s.refresh(ctx)
	if err != nil {
		return nil, err
	}

	rooms, err := s.roomRepo.FindAll(ctx, repository.RoomFilter{HouseIDs: filter.HouseIDs})
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	var houses []models.House
	if len(filter.HouseIDs) > 0 {
		houses, err = s.houseRepo.FindByIDs(ctx, filter.HouseIDs)
	} else {
		houses, err = s.houseRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load houses: %w", err)
	}

	result := &RoomMap{Reconcile: report}
	index := make(map[uint]int, len(houses))
	for _, h := range houses {
		index[h.ID] = len(result.Houses)
		result.Houses = append(result.Houses, HouseRooms{House: h, Rooms: []models.Room{}})
	}

	for _, r := range rooms {
		i, ok := index[r.HouseID]
		if !ok {
			continue
		}
		st := r.Status()
		result.Counts.add(st)
		result.Houses[i].Counts.add(st)

		if filter.Status != nil && !st.Has(*filter.Status) {
			continue
		}
		if filter.IsDirty != nil && st.Dirty != *filter.IsDirty {
			continue
		}
		result.Houses[i].Rooms = append(result.Houses[i].Rooms, r)
	}
	return result, nil
}

func (s *roomService) Stats(ctx context.Context, houseIDs []uint) (*RoomStats, error) {
	report, err := s.refresh(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.roomRepo.FindAll(ctx, repository.RoomFilter{HouseIDs: houseIDs})
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	stats := &RoomStats{Reconcile: report}
	for i := range rooms {
		stats.add(rooms[i].Status())
	}
	return stats, nil
}

func (s *roomService) Available(ctx context.Context, houseID uint, window occupancy.Window) ([]models.Room, error) {
	verr := &ValidationError{}
	if houseID == 0 {
		verr.Add("houseId", "is required")
	}
	if window.CheckIn.IsZero() {
		verr.Add("checkIn", "is required")
	}
	if window.CheckOut.IsZero() {
		verr.Add("checkOut", "is required")
	}
	if !verr.HasErrors() && !window.Valid() {
		verr.Add("checkOut", "must be after check-in")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if _, err := s.houseRepo.FindByID(ctx, houseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, fmt.Errorf("find house %d: %w", houseID, err)
	}
	return s.roomRepo.FindAvailable(ctx, houseID, window)
}

func (s *roomService) CreateRoom(ctx context.Context, in CreateRoomInput) (*models.Room, error) {
	verr := &ValidationError{}
	if in.HouseID == 0 {
		verr.Add("houseId", "is required")
	}
	code := strings.TrimSpace(in.Code)
	normalized := models.NormalizeRoomCode(code)
	if normalized == "" {
		verr.Add("code", "is required")
	}
	roomType := models.RoomTypeStandard
	if t := strings.TrimSpace(in.Type); t != "" {
		roomType = models.RoomType(t)
		if strings.EqualFold(t, "vip") {
			roomType = models.RoomTypeVIP
		} else if strings.EqualFold(t, "standard") {
			roomType = models.RoomTypeStandard
		}
		if !models.ValidRoomType(roomType) {
			verr.Add("type", "must be Standard or VIP")
		}
	}
	state := models.RoomStateActive
	if st := strings.TrimSpace(in.State); st != "" {
		state = models.RoomState(strings.ToLower(st))
		if !models.ValidRoomState(state) {
			verr.Add("state", "must be active, inactive or maintenance")
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if _, err := s.houseRepo.FindByID(ctx, in.HouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, fmt.Errorf("find house %d: %w", in.HouseID, err)
	}
	exists, err := s.roomRepo.ExistsCode(ctx, in.HouseID, normalized)
	if err != nil {
		return nil, fmt.Errorf("check room code: %w", err)
	}
	if exists {
		return nil, ErrDuplicateRoomCode
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = code
	}
	room := &models.Room{
		HouseID:        in.HouseID,
		Code:           code,
		CodeNormalized: normalized,
		Name:           name,
		Type:           roomType,
		State:          state,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, ErrDuplicateRoomCode
		}
		return nil, fmt.Errorf("create room: %w", err)
	}
	return room, nil
}

func (s *roomService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("find room %d: %w", id, err)
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context, houseIDs []uint) ([]models.Room, error) {
	return s.roomRepo.FindAll(ctx, repository.RoomFilter{HouseIDs: houseIDs})
}

func (s *roomService) DeleteRoom(ctx context.Context, id uint) error {
	affected, err := s.roomRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete room %d: %w", id, err)
	}
	if affected == 0 {
		return ErrRoomNotFound
	}
	return nil
}
