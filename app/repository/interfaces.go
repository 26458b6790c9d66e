package repository

import (
	"github.com/VeluraLiving/Velura/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// SupplierRepository defines the interface for supplier database operations
type SupplierRepository interface {
	GetByID(id uint) (*models.Supplier, error)
	GetByUserID(userID uint) (*models.Supplier, error)
	UpdateKYCStatus(id uint, status string) error
	List(offset, limit int) ([]models.Supplier, error)
	Count() (int64, error)
}

// AdRepository defines the interface for marketplace ad database operations
type AdRepository interface {
	Create(ad *models.MarketplaceAd) error
	GetByID(id uint) (*models.MarketplaceAd, error)
	GetByUUID(uuid string) (*models.MarketplaceAd, error)
	ListByStatus(status string, offset, limit int) ([]models.MarketplaceAd, error)
	ListBySupplier(supplierID uint, offset, limit int) ([]models.MarketplaceAd, error)
	CountByStatus(status string) (int64, error)
	SubmitForModeration(id uint) error
	ExpireOverdue() (int64, error)
}

// PaymentRepository provides read access to the append-only payment ledger.
type PaymentRepository interface {
	GetByID(id uint) (*models.Payment, error)
	ListByUser(userID uint, offset, limit int) ([]models.Payment, error)
	CountByUser(userID uint) (int64, error)
}

// NominationRepository defines read access used by checkout validation.
type NominationRepository interface {
	GetByID(id uint) (*models.Nomination, error)
}

// TicketRepository defines read access used by checkout validation.
type TicketRepository interface {
	GetByID(id uint) (*models.Ticket, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User       UserRepository
	Supplier   SupplierRepository
	Ad         AdRepository
	Payment    PaymentRepository
	Nomination NominationRepository
	Ticket     TicketRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Supplier:   NewSupplierRepository(db),
		Ad:         NewAdRepository(db),
		Payment:    NewPaymentRepository(db),
		Nomination: NewNominationRepository(db),
		Ticket:     NewTicketRepository(db),
	}
}
