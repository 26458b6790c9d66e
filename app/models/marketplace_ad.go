package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AdStatusDraft    = "draft"
	AdStatusPending  = "pending"
	AdStatusApproved = "approved"
	AdStatusRejected = "rejected"
	AdStatusExpired  = "expired"
)

// AdLiveDuration is how long an approved ad stays live before it expires.
const AdLiveDuration = 30 * 24 * time.Hour

// MarketplaceAd is a supplier listing. Only the pending → approved/rejected
// transition is handled by the moderation gate; approval consumes one
// subscription credit and sets the live window.
type MarketplaceAd struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UUID             string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	SupplierID       uint           `gorm:"not null;index" json:"supplier_id"`
	Supplier         *Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Title            string         `gorm:"type:varchar(200);not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	PriceCents       int64          `gorm:"not null;default:0" json:"price_cents"`
	Currency         string         `gorm:"type:varchar(3);not null;default:'eur'" json:"currency"`
	Category         string         `gorm:"type:varchar(100);default:'';index" json:"category"`
	Status           string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	GoLiveAt         *time.Time     `gorm:"type:timestamp;default:null" json:"go_live_at,omitempty"`
	ExpiresAt        *time.Time     `gorm:"type:timestamp;default:null;index" json:"expires_at,omitempty"`
	ModerationReason *string        `gorm:"type:text;default:null" json:"moderation_reason,omitempty"`
	ModeratedByID    *uint          `gorm:"index" json:"moderated_by_id,omitempty"`
	ModeratedAt      *time.Time     `gorm:"type:timestamp;default:null" json:"moderated_at,omitempty"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsLive reports whether an approved ad is visible at the given instant.
// The live window is [go_live_at, expires_at).
func (a *MarketplaceAd) IsLive(now time.Time) bool {
	if a == nil || a.Status != AdStatusApproved {
		return false
	}
	if a.GoLiveAt == nil || a.ExpiresAt == nil {
		return false
	}
	return !now.Before(*a.GoLiveAt) && now.Before(*a.ExpiresAt)
}
