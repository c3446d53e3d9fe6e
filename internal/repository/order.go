package repository

import (
	"context"
	"errors"
	"restaurant-checkout/internal/model"
	"time"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByCartID(ctx context.Context, cartID string) (*model.Order, error)
	FindByHash(ctx context.Context, hash string) (*model.Order, error)
	Save(ctx context.Context, tx *gorm.DB, order *model.Order) error
	// MarkPaymentProcessed flips the processed flag if and only if it is
	// still unset. Returns false when another confirm got there first.
	MarkPaymentProcessed(ctx context.Context, orderID uint) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByCartID(ctx context.Context, cartID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id DESC").
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByHash(ctx context.Context, hash string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("hash = ?", hash).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) Save(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Save(order).Error
}

func (r *orderRepoImpl) MarkPaymentProcessed(ctx context.Context, orderID uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_processed = ?", orderID, false).
		Updates(map[string]interface{}{
			"payment_processed": true,
			"status":            model.OrderStatusReceived,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
