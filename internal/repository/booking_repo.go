package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/occupancy"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingFilter struct {
	HouseIDs         []uint
	RoomID           *uint
	Status           *models.BookingStatus
	CheckInFrom      *time.Time
	CheckInBefore    *time.Time
	CheckOutFrom     *time.Time
	CheckOutBefore   *time.Time
	ExcludeCancelled bool
}

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	HasOverlap(ctx context.Context, tx *gorm.DB, roomID uint, window occupancy.Window, excludeID uint) (bool, error)
	FindActive(ctx context.Context, now time.Time) ([]models.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Save(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// HasOverlap reports whether a non-cancelled booking of the room crosses the window.
// excludeID of zero excludes nothing.
func (r *bookingRepository) HasOverlap(ctx context.Context, tx *gorm.DB, roomID uint, window occupancy.Window, excludeID uint) (bool, error) {
	q := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("room_id = ? AND status <> ?", roomID, models.StatusCancelled).
		Where("check_in < ? AND check_out > ?", window.CheckOut, window.CheckIn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindActive loads every non-cancelled booking whose check-out has not passed.
func (r *bookingRepository) FindActive(ctx context.Context, now time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("status <> ? AND check_out >= ?", models.StatusCancelled, now).
		Order("id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx)
	if len(filter.HouseIDs) > 0 {
		q = q.Where("house_id IN ?", filter.HouseIDs)
	}
	if filter.RoomID != nil {
		q = q.Where("room_id = ?", *filter.RoomID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.ExcludeCancelled {
		q = q.Where("status <> ?", models.StatusCancelled)
	}
	if filter.CheckInFrom != nil {
		q = q.Where("check_in >= ?", *filter.CheckInFrom)
	}
	if filter.CheckInBefore != nil {
		q = q.Where("check_in < ?", *filter.CheckInBefore)
	}
	if filter.CheckOutFrom != nil {
		q = q.Where("check_out >= ?", *filter.CheckOutFrom)
	}
	if filter.CheckOutBefore != nil {
		q = q.Where("check_out < ?", *filter.CheckOutBefore)
	}
	if err := q.Order("check_in ASC, id ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
