package repository

import (
	"context"
	"errors"
	"restaurant-checkout/internal/model"

	"gorm.io/gorm"
)

type AddressRepository interface {
	FindByID(ctx context.Context, addressID uint) (*model.Address, error)
	Save(ctx context.Context, tx *gorm.DB, address *model.Address) error
}

type addressRepoImpl struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepoImpl{
		db: db,
	}
}

func (r *addressRepoImpl) FindByID(ctx context.Context, addressID uint) (*model.Address, error) {
	var address model.Address
	err := r.db.WithContext(ctx).
		Where("id = ?", addressID).
		First(&address).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &address, nil
}

func (r *addressRepoImpl) Save(ctx context.Context, tx *gorm.DB, address *model.Address) error {
	return tx.WithContext(ctx).Save(address).Error
}
