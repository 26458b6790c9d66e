package repository

import (
	"time"

	"github.com/VeluraLiving/Velura/app/models"
	"gorm.io/gorm"
)

// adRepository implements the AdRepository interface
type adRepository struct {
	db *gorm.DB
}

// NewAdRepository creates a new marketplace ad repository instance
func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db: db}
}

// Create creates a new ad in the database
func (r *adRepository) Create(ad *models.MarketplaceAd) error {
	return r.db.Create(ad).Error
}

// GetByID retrieves an ad by its ID
func (r *adRepository) GetByID(id uint) (*models.MarketplaceAd, error) {
	var ad models.MarketplaceAd
	err := r.db.Preload("Supplier").First(&ad, id).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// GetByUUID retrieves an ad by its public UUID
func (r *adRepository) GetByUUID(uuid string) (*models.MarketplaceAd, error) {
	var ad models.MarketplaceAd
	err := r.db.Preload("Supplier").Where("uuid = ?", uuid).First(&ad).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// ListByStatus retrieves ads in a given status with pagination, oldest first
// so the moderation queue is worked in arrival order.
func (r *adRepository) ListByStatus(status string, offset, limit int) ([]models.MarketplaceAd, error) {
	var ads []models.MarketplaceAd
	err := r.db.Preload("Supplier").Where("status = ?", status).
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&ads).Error
	return ads, err
}

// ListBySupplier retrieves a supplier's ads with pagination
func (r *adRepository) ListBySupplier(supplierID uint, offset, limit int) ([]models.MarketplaceAd, error) {
	var ads []models.MarketplaceAd
	err := r.db.Where("supplier_id = ?", supplierID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&ads).Error
	return ads, err
}

// CountByStatus returns the number of ads in a given status
func (r *adRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.MarketplaceAd{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// SubmitForModeration moves a draft ad into the moderation queue
func (r *adRepository) SubmitForModeration(id uint) error {
	return r.db.Model(&models.MarketplaceAd{}).
		Where("id = ? AND status = ?", id, models.AdStatusDraft).
		Update("status", models.AdStatusPending).Error
}

// ExpireOverdue flips approved ads whose live window has passed to expired
// and returns how many rows changed.
func (r *adRepository) ExpireOverdue() (int64, error) {
	tx := r.db.Model(&models.MarketplaceAd{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.AdStatusApproved, time.Now()).
		Update("status", models.AdStatusExpired)
	return tx.RowsAffected, tx.Error
}
