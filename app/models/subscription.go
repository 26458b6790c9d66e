package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// DefaultMonthlyCredits is the ad-posting allowance granted per billing cycle.
const DefaultMonthlyCredits = 3

// Subscription mirrors a supplier's Stripe subscription and carries the
// monthly ad-posting credit allowance. One row per supplier, enforced by the
// unique index on supplier_id; re-subscribing after cancellation updates the
// existing row instead of creating a second one.
type Subscription struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	SupplierID           uint       `gorm:"not null;uniqueIndex" json:"supplier_id"`
	Supplier             *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	PlanName             string     `gorm:"type:varchar(100);not null;default:''" json:"plan_name"`
	PriceCents           int64      `gorm:"not null;default:0" json:"price_cents"`
	Currency             string     `gorm:"type:varchar(3);not null;default:'eur'" json:"currency"`
	Status               string     `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`
	CurrentPeriodStart   *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CreditsTotal         int        `gorm:"not null;default:0" json:"credits_total"`
	CreditsUsed          int        `gorm:"not null;default:0" json:"credits_used"`
	StripeCustomerID     *string    `gorm:"type:varchar(191);uniqueIndex" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string    `gorm:"type:varchar(191);uniqueIndex" json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the subscription currently entitles the supplier
// to marketplace features.
func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == SubscriptionStatusActive
}

// CreditsRemaining returns how many ad approvals the current cycle still allows.
func (s *Subscription) CreditsRemaining() int {
	if s == nil {
		return 0
	}
	remaining := s.CreditsTotal - s.CreditsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
