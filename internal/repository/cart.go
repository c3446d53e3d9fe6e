package repository

import (
	"context"
	"errors"
	"restaurant-checkout/internal/model"

	"gorm.io/gorm"
)

type CartRepository interface {
	FindBySession(ctx context.Context, sessionID string) (*model.Cart, error)
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) FindBySession(ctx context.Context, sessionID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", sessionID).
		First(&cart).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &cart, nil
}
