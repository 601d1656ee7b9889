package persistence

import (
	"context"
	"errors"

	"github.com/awestore/backend/internal/domain/shared"
	"github.com/awestore/backend/internal/domain/shopping"
	"github.com/awestore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCartRepository implements shopping.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByCustomer finds the cart for a customer
func (r *GormCartRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*shopping.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a cart together with its lines
func (r *GormCartRepository) Save(ctx context.Context, cart *shopping.Cart) error {
	var model models.CartModel
	model.FromDomain(cart)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(&model).Error; err != nil {
			return err
		}

		// Delete lines removed from the cart since the last save
		currentItemIDs := make([]uuid.UUID, len(model.Items))
		for i, item := range model.Items {
			currentItemIDs[i] = item.ID
		}
		if len(currentItemIDs) > 0 {
			if err := tx.Where("cart_id = ? AND id NOT IN ?", model.ID, currentItemIDs).
				Delete(&models.CartItemModel{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("cart_id = ?", model.ID).
				Delete(&models.CartItemModel{}).Error; err != nil {
				return err
			}
		}

		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a customer's cart
func (r *GormCartRepository) Delete(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.CartModel
		if err := tx.First(&model, "customer_id = ?", customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("cart_id = ?", model.ID).
			Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model).Error
	})
}

// Ensure GormCartRepository implements CartRepository
var _ shopping.CartRepository = (*GormCartRepository)(nil)
