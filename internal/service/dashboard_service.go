package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/repository"
)

type DailySummary struct {
	Date          time.Time
	Stats         StatusCounts
	ActiveRooms   int
	Arrivals      []models.Booking
	Departures    []models.Booking
	InHouse       []models.Booking
	Revenue       float64
	OccupancyRate float64
	Reconcile     ReconcileReport
}

type DashboardService interface {
	Daily(ctx context.Context, date string, houseIDs []uint) (*DailySummary, error)
}

type dashboardService struct {
	rooms       RoomService
	roomRepo    repository.RoomRepository
	bookingRepo repository.BookingRepository
	defaults    StayDefaults
	clock       Clock
}

func NewDashboardService(rooms RoomService, roomRepo repository.RoomRepository, bookingRepo repository.BookingRepository, defaults StayDefaults, clock Clock) DashboardService {
	return &dashboardService{rooms: rooms, roomRepo: roomRepo, bookingRepo: bookingRepo, defaults: defaults, clock: clock}
}

// Daily summarises one calendar day in the configured location. An empty date
// means today.
func (s *dashboardService) Daily(ctx context.Context, date string, houseIDs []uint) (*DailySummary, error) {
	loc := s.defaults.location()
	var day time.Time
	if date == "" {
		n := s.clock.now().In(loc)
		day = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	} else {
		d, err := time.ParseInLocation(dateLayout, date, loc)
		if err != nil {
			return nil, invalid("date", "must be YYYY-MM-DD")
		}
		day = d
	}
	next := day.AddDate(0, 0, 1)

	stats, err := s.rooms.Stats(ctx, houseIDs)
	if err != nil {
		return nil, err
	}
	rooms, err := s.roomRepo.FindAll(ctx, repository.RoomFilter{HouseIDs: houseIDs})
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	arrivals, err := s.bookingRepo.FindAll(ctx, repository.BookingFilter{
		HouseIDs: houseIDs, ExcludeCancelled: true, CheckInFrom: &day, CheckInBefore: &next,
	})
	if err != nil {
		return nil, fmt.Errorf("load arrivals: %w", err)
	}
	departures, err := s.bookingRepo.FindAll(ctx, repository.BookingFilter{
		HouseIDs: houseIDs, ExcludeCancelled: true, CheckOutFrom: &day, CheckOutBefore: &next,
	})
	if err != nil {
		return nil, fmt.Errorf("load departures: %w", err)
	}
	// Stays that cover part of the day: checked in before midnight, leaving after it.
	inHouse, err := s.bookingRepo.FindAll(ctx, repository.BookingFilter{
		HouseIDs: houseIDs, ExcludeCancelled: true, CheckInBefore: &next, CheckOutFrom: &day,
	})
	if err != nil {
		return nil, fmt.Errorf("load in-house bookings: %w", err)
	}

	summary := &DailySummary{
		Date:       day,
		Stats:      stats.StatusCounts,
		Arrivals:   arrivals,
		Departures: departures,
		InHouse:    inHouse,
		Reconcile:  stats.Reconcile,
	}
	occupied := 0
	for i := range rooms {
		if rooms[i].State != models.RoomStateActive {
			continue
		}
		summary.ActiveRooms++
		if rooms[i].IsOccupied {
			occupied++
		}
	}
	for i := range arrivals {
		summary.Revenue += arrivals[i].Price
	}
	if summary.ActiveRooms > 0 {
		summary.OccupancyRate = math.Round(float64(occupied)/float64(summary.ActiveRooms)*10000) / 100
	}
	return summary, nil
}
