package service

import (
	"context"
	"fmt"
	"restaurant-checkout/internal/model"
	"restaurant-checkout/internal/repository"
	"time"
)

// CartValidator runs the guard checks the checkout security gate is built
// from. Each check is independently replaceable in tests.
type CartValidator interface {
	ValidateContents(cart *model.Cart) error
	ValidateLocation(ctx context.Context, cart *model.Cart) error
	ValidateOrderTime(ctx context.Context, cart *model.Cart) error
	CartTotalIsBelowMinimumOrder(ctx context.Context, cart *model.Cart) (bool, error)
	DeliveryChargeIsUnavailable(ctx context.Context, cart *model.Cart) (bool, error)
}

type cartValidatorImpl struct {
	locationRepo repository.LocationRepository
	now          func() time.Time
}

func NewCartValidator(locationRepo repository.LocationRepository) CartValidator {
	return &cartValidatorImpl{
		locationRepo: locationRepo,
		now:          time.Now,
	}
}

func (v *cartValidatorImpl) ValidateContents(cart *model.Cart) error {
	if cart == nil || cart.IsEmpty() {
		return &SecurityError{Reason: "your cart is empty, add menu items before checking out"}
	}
	return nil
}

func (v *cartValidatorImpl) ValidateLocation(ctx context.Context, cart *model.Cart) error {
	location, err := v.location(ctx, cart)
	if err != nil {
		return err
	}

	if !location.IsOpen {
		return &SecurityError{Reason: fmt.Sprintf("%s is currently closed", location.Name)}
	}

	switch cart.FulfillmentType {
	case model.FulfillmentDelivery:
		if !location.AcceptsDelivery {
			return &SecurityError{Reason: fmt.Sprintf("%s does not offer delivery", location.Name)}
		}
	case model.FulfillmentPickup:
		if !location.AcceptsPickup {
			return &SecurityError{Reason: fmt.Sprintf("%s does not offer pick-up", location.Name)}
		}
	}

	return nil
}

func (v *cartValidatorImpl) ValidateOrderTime(ctx context.Context, cart *model.Cart) error {
	location, err := v.location(ctx, cart)
	if err != nil {
		return err
	}

	if location.OpensAt == "" || location.ClosesAt == "" {
		return nil
	}

	now := v.now().Format("15:04")
	open := false
	if location.OpensAt <= location.ClosesAt {
		open = now >= location.OpensAt && now <= location.ClosesAt
	} else {
		// overnight window, e.g. 18:00-02:00
		open = now >= location.OpensAt || now <= location.ClosesAt
	}

	if !open {
		return &SecurityError{Reason: fmt.Sprintf("orders are accepted between %s and %s", location.OpensAt, location.ClosesAt)}
	}
	return nil
}

func (v *cartValidatorImpl) CartTotalIsBelowMinimumOrder(ctx context.Context, cart *model.Cart) (bool, error) {
	location, err := v.location(ctx, cart)
	if err != nil {
		return false, err
	}

	return cart.Subtotal().LessThan(location.MinimumOrderTotal), nil
}

func (v *cartValidatorImpl) DeliveryChargeIsUnavailable(ctx context.Context, cart *model.Cart) (bool, error) {
	if cart.FulfillmentType != model.FulfillmentDelivery {
		return false, nil
	}

	location, err := v.location(ctx, cart)
	if err != nil {
		return false, err
	}

	// No configured delivery area means no charge can be computed.
	return location.DeliveryRadiusKm <= 0, nil
}

func (v *cartValidatorImpl) location(ctx context.Context, cart *model.Cart) (*model.Location, error) {
	location, err := v.locationRepo.FindByID(ctx, cart.LocationID)
	if err != nil {
		return nil, fmt.Errorf("load location %d: %w", cart.LocationID, err)
	}
	if location == nil {
		return nil, &SecurityError{Reason: "the selected location is no longer available"}
	}
	return location, nil
}
