package repository

import (
	"context"
	"errors"
	"restaurant-checkout/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, customerID uint) (*model.Customer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type customerRepoImpl struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepoImpl{
		db: db,
	}
}

func (r *customerRepoImpl) FindByID(ctx context.Context, customerID uint) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("id = ?", customerID).
		First(&customer).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepoImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("email = ?", email).
		Count(&count).Error

	return count > 0, err
}
