package repository

import (
	"github.com/VeluraLiving/Velura/app/models"
	"gorm.io/gorm"
)

// paymentRepository implements the PaymentRepository interface. The ledger is
// append-only; writes go through the billing package's conflict-skip insert.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// GetByID retrieves a payment by its ID
func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByUser retrieves a user's payments with pagination
func (r *paymentRepository) ListByUser(userID uint, offset, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error
	return payments, err
}

// CountByUser returns the number of ledger rows belonging to a user
func (r *paymentRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
