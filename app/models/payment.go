package models

import "time"

const (
	PaymentTypeSubscription = "subscription"
	PaymentTypeNomination   = "nomination"
	PaymentTypeTicket       = "ticket"
	PaymentTypeUnknown      = "unknown"
)

const PaymentStatusSucceeded = "succeeded"

// Payment is an append-only ledger row for a successful provider payment.
// Exactly one of StripeCheckoutSessionID / StripePaymentIntentID is set and
// acts as the idempotency key: duplicate webhook delivery must not create a
// second row (enforced via the unique indexes + conflict-skip insert).
// Rows are never updated or deleted.
type Payment struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	UserID                  uint      `gorm:"not null;index" json:"user_id"`
	Type                    string    `gorm:"type:varchar(20);not null;default:'unknown';index" json:"type"`
	AmountCents             int64     `gorm:"not null;default:0" json:"amount_cents"`
	Currency                string    `gorm:"type:varchar(3);not null;default:''" json:"currency"`
	Status                  string    `gorm:"type:varchar(20);not null;default:'succeeded'" json:"status"`
	StripeCheckoutSessionID *string   `gorm:"type:varchar(191);uniqueIndex" json:"stripe_checkout_session_id,omitempty"`
	StripePaymentIntentID   *string   `gorm:"type:varchar(191);uniqueIndex" json:"stripe_payment_intent_id,omitempty"`
	MetadataJSON            string    `gorm:"type:longtext" json:"metadata_json"`
	CreatedAt               time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
