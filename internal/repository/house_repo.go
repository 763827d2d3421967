package repository

import (
	"context"

	"github.com/Eursukkul/homestay-service/internal/models"
	"gorm.io/gorm"
)

type HouseRepository interface {
	Create(ctx context.Context, house *models.House) error
	FindByID(ctx context.Context, id uint) (*models.House, error)
	FindAll(ctx context.Context) ([]models.House, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.House, error)
}

type houseRepository struct {
	db *gorm.DB
}

func NewHouseRepository(db *gorm.DB) HouseRepository {
	return &houseRepository{db: db}
}

func (r *houseRepository) Create(ctx context.Context, house *models.House) error {
	return r.db.WithContext(ctx).Create(house).Error
}

func (r *houseRepository) FindByID(ctx context.Context, id uint) (*models.House, error) {
	var house models.House
	if err := r.db.WithContext(ctx).First(&house, id).Error; err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *houseRepository) FindAll(ctx context.Context) ([]models.House, error) {
	var houses []models.House
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&houses).Error; err != nil {
		return nil, err
	}
	return houses, nil
}

func (r *houseRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.House, error) {
	var houses []models.House
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&houses).Error; err != nil {
		return nil, err
	}
	return houses, nil
}
