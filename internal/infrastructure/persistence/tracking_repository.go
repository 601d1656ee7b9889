package persistence

import (
	"context"
	"errors"

	"github.com/awestore/backend/internal/domain/shared"
	"github.com/awestore/backend/internal/domain/tracking"
	"github.com/awestore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTrackingRepository implements tracking.Repository using GORM
type GormTrackingRepository struct {
	db *gorm.DB
}

// NewGormTrackingRepository creates a new GormTrackingRepository
func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

// FindByOrderID finds the tracking record for an order
func (r *GormTrackingRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*tracking.Record, error) {
	var model models.TrackingRecordModel
	if err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC")
		}).
		First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds the tracking record by order number
func (r *GormTrackingRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*tracking.Record, error) {
	var model models.TrackingRecordModel
	if err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC")
		}).
		First(&model, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer finds all tracking records for a customer
func (r *GormTrackingRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]tracking.Record, error) {
	var recordModels []models.TrackingRecordModel
	query := r.db.WithContext(ctx).Model(&models.TrackingRecordModel{}).
		Where("customer_id = ?", customerID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, TrackingSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.Order(orderBy + " " + orderDir).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at ASC")
		}).
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]tracking.Record, 0, len(recordModels))
	for i := range recordModels {
		records = append(records, *recordModels[i].ToDomain())
	}
	return records, nil
}

// Save creates or updates a tracking record with its events
func (r *GormTrackingRepository) Save(ctx context.Context, record *tracking.Record) error {
	var model models.TrackingRecordModel
	model.FromDomain(record)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Events").Save(&model).Error; err != nil {
			return err
		}

		// The timeline only grows, so an upsert per event is enough
		for i := range model.Events {
			if err := tx.Save(&model.Events[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the tracking record for an order
func (r *GormTrackingRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.TrackingRecordModel
		if err := tx.First(&model, "order_id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("record_id = ?", model.ID).
			Delete(&models.TrackingEventModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model).Error
	})
}

// Ensure GormTrackingRepository implements Repository
var _ tracking.Repository = (*GormTrackingRepository)(nil)
