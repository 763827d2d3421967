package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/occupancy"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomFilter struct {
	HouseIDs []uint
}

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id uint) (*models.Room, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error)
	FindAll(ctx context.Context, filter RoomFilter) ([]models.Room, error)
	ExistsCode(ctx context.Context, houseID uint, normalized string) (bool, error)
	FindAvailable(ctx context.Context, houseID uint, window occupancy.Window) ([]models.Room, error)
	UpdateOccupancy(ctx context.Context, id uint, status occupancy.Status, at time.Time) error
	SetDirty(ctx context.Context, id uint, dirty bool) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByIDForUpdate acquires a row-level lock on the room within the given transaction.
func (r *roomRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error) {
	var room models.Room
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindAll(ctx context.Context, filter RoomFilter) ([]models.Room, error) {
	var rooms []models.Room
	q := r.db.WithContext(ctx)
	if len(filter.HouseIDs) > 0 {
		q = q.Where("house_id IN ?", filter.HouseIDs)
	}
	if err := q.Order("house_id ASC, code_normalized ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) ExistsCode(ctx context.Context, houseID uint, normalized string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("house_id = ? AND code_normalized = ?", houseID, normalized).
		Count(&count).Error
	return count > 0, err
}

// FindAvailable returns active rooms of a house with no live booking crossing the window.
func (r *roomRepository) FindAvailable(ctx context.Context, houseID uint, window occupancy.Window) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Where("house_id = ? AND state = ?", houseID, models.RoomStateActive).
		Where(`NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.room_id = rooms.id AND b.status <> ? AND b.check_in < ? AND b.check_out > ?
		)`, models.StatusCancelled, window.CheckOut, window.CheckIn).
		Order("code_normalized ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// UpdateOccupancy writes the derived columns only; is_dirty is owned by SetDirty.
func (r *roomRepository) UpdateOccupancy(ctx context.Context, id uint, status occupancy.Status, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_booked":         status.Booked,
			"is_occupied":       status.Occupied,
			"status_updated_at": at,
		}).Error
}

func (r *roomRepository) SetDirty(ctx context.Context, id uint, dirty bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", id).
		Update("is_dirty", dirty)
	return result.RowsAffected, result.Error
}

func (r *roomRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Room{}, id)
	return result.RowsAffected, result.Error
}
