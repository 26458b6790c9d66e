package repository

import (
	"github.com/VeluraLiving/Velura/app/models"
	"gorm.io/gorm"
)

type nominationRepository struct {
	db *gorm.DB
}

// NewNominationRepository creates a new nomination repository instance
func NewNominationRepository(db *gorm.DB) NominationRepository {
	return &nominationRepository{db: db}
}

// GetByID retrieves a nomination by its ID
func (r *nominationRepository) GetByID(id uint) (*models.Nomination, error) {
	var nomination models.Nomination
	err := r.db.First(&nomination, id).Error
	if err != nil {
		return nil, err
	}
	return &nomination, nil
}

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new ticket repository instance
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

// GetByID retrieves a ticket by its ID
func (r *ticketRepository) GetByID(id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}
