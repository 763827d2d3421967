package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/homestay-service/internal/models"
	"github.com/Eursukkul/homestay-service/internal/repository"
	"gorm.io/gorm"
)

type HouseService interface {
	CreateHouse(ctx context.Context, house *models.House) error
	GetHouse(ctx context.Context, id uint) (*models.House, error)
	ListHouses(ctx context.Context) ([]models.House, error)
}

type houseService struct {
	repo repository.HouseRepository
}

func NewHouseService(repo repository.HouseRepository) HouseService {
	return &houseService{repo: repo}
}

func (s *houseService) CreateHouse(ctx context.Context, house *models.House) error {
	house.Code = strings.ToUpper(strings.TrimSpace(house.Code))
	house.Name = strings.TrimSpace(house.Name)

	verr := &ValidationError{}
	if house.Code == "" {
		verr.Add("code", "is required")
	}
	if house.Name == "" {
		verr.Add("name", "is required")
	}
	if verr.HasErrors() {
		return verr
	}

	if err := s.repo.Create(ctx, house); err != nil {
		if pgCode(err) == pgUniqueViolation {
			return ErrDuplicateHouseCode
		}
		return fmt.Errorf("create house: %w", err)
	}
	return nil
}

func (s *houseService) GetHouse(ctx context.Context, id uint) (*models.House, error) {
	house, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, fmt.Errorf("find house %d: %w", id, err)
	}
	return house, nil
}

func (s *houseService) ListHouses(ctx context.Context) ([]models.House, error) {
	return s.repo.FindAll(ctx)
}
