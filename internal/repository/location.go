package repository

import (
	"context"
	"errors"
	"restaurant-checkout/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LocationRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, locationID uint) (*model.Location, error)
}

type locationRepoImpl struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepoImpl{
		db: db,
	}
}

func (r *locationRepoImpl) Seed(ctx context.Context) error {
	locations := []model.Location{
		{
			ID:                1,
			Name:              "Downtown kitchen",
			IsOpen:            true,
			OpensAt:           "11:00",
			ClosesAt:          "23:00",
			AcceptsDelivery:   true,
			AcceptsPickup:     true,
			DeliveryRadiusKm:  8,
			MinimumOrderTotal: decimal.NewFromInt(15),
			DeliveryCharge:    decimal.NewFromFloat(3.50),
		},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&locations).Error
}

func (r *locationRepoImpl) FindByID(ctx context.Context, locationID uint) (*model.Location, error) {
	var location model.Location
	err := r.db.WithContext(ctx).
		Where("id = ?", locationID).
		First(&location).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &location, nil
}
