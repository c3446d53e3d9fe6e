package repository

import (
	"context"
	"errors"
	"restaurant-checkout/internal/model"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Seed(ctx context.Context) error
	ListEnabled(ctx context.Context) ([]*model.PaymentMethod, error)
	FindByCode(ctx context.Context, code string) (*model.PaymentMethod, error)

	FindProfile(ctx context.Context, customerID uint, code string) (*model.PaymentProfile, error)
	UpsertProfile(ctx context.Context, profile *model.PaymentProfile) error
	DeleteProfile(ctx context.Context, customerID uint, code string) error
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Seed(ctx context.Context) error {
	methods := []model.PaymentMethod{
		{Code: "cod", Name: "Cash on delivery", Description: "Pay the driver or at the counter", Enabled: true},
		{Code: "braintree", Name: "Credit or debit card", Description: "Card payment, optionally saved for next time", FeePercent: decimal.NewFromFloat(1.5), SupportsProfiles: true, Enabled: true},
		{Code: "paylink", Name: "Hosted payment page", Description: "Pay on our provider's secure page", FeeAmount: decimal.NewFromFloat(0.30), Enabled: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&methods).Error
}

func (r *paymentRepoImpl) ListEnabled(ctx context.Context) ([]*model.PaymentMethod, error) {
	var methods []*model.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("id").
		Find(&methods).Error

	if err != nil {
		return nil, err
	}

	return methods, nil
}

func (r *paymentRepoImpl) FindByCode(ctx context.Context, code string) (*model.PaymentMethod, error) {
	var method model.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("code = ? AND enabled = ?", code, true).
		First(&method).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &method, nil
}

func (r *paymentRepoImpl) FindProfile(ctx context.Context, customerID uint, code string) (*model.PaymentProfile, error) {
	var profile model.PaymentProfile
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND code = ?", customerID, code).
		First(&profile).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

func (r *paymentRepoImpl) UpsertProfile(ctx context.Context, profile *model.PaymentProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "code"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"profile_ref": profile.ProfileRef,
			"updated_at":  time.Now(),
		}),
	}).Create(&profile).Error
}

func (r *paymentRepoImpl) DeleteProfile(ctx context.Context, customerID uint, code string) error {
	result := r.db.WithContext(ctx).
		Where("customer_id = ? AND code = ?", customerID, code).
		Delete(&model.PaymentProfile{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
