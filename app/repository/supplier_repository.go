package repository

import (
	"github.com/VeluraLiving/Velura/app/models"
	"gorm.io/gorm"
)

// supplierRepository implements the SupplierRepository interface
type supplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a new supplier repository instance
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

// GetByID retrieves a supplier by its ID
func (r *supplierRepository) GetByID(id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.Preload("User").First(&supplier, id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// GetByUserID retrieves the supplier identity of a user
func (r *supplierRepository) GetByUserID(userID uint) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.Where("user_id = ?", userID).First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// UpdateKYCStatus transitions a supplier's KYC status
func (r *supplierRepository) UpdateKYCStatus(id uint, status string) error {
	return r.db.Model(&models.Supplier{}).Where("id = ?", id).
		Update("kyc_status", status).Error
}

// List retrieves a paginated list of suppliers
func (r *supplierRepository) List(offset, limit int) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.Preload("User").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&suppliers).Error
	return suppliers, err
}

// Count returns the total number of suppliers
func (r *supplierRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Supplier{}).Count(&count).Error
	return count, err
}
