package billing

import (
	"time"

	"github.com/VeluraLiving/Velura/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	CreateWebhookEventIfNotExists(event *models.StripeWebhookEvent) (bool, *models.StripeWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
	EnsureSupplierForUser(userID uint) (*models.Supplier, error)
	UpsertSubscription(sub *models.Subscription) error
	ActivateSubscriptionCycle(stripeSubscriptionID string) (int64, error)
	SyncSubscription(stripeSubscriptionID, status string, periodStart, periodEnd *time.Time) (int64, error)
	CancelSubscription(stripeSubscriptionID string) (int64, error)
	MarkSubscriptionPastDue(stripeSubscriptionID string) (int64, error)
	CreatePaymentIfNotExists(payment *models.Payment) (bool, error)
	MarkNominationPaid(id uint) error
	MarkTicketPaid(id uint) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.StripeWebhookEvent) (bool, *models.StripeWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.StripeWebhookEvent
	if err := r.db.Where("stripe_event_id = ?", event.StripeEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.StripeWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

// EnsureSupplierForUser returns the supplier row for a user, creating one
// with KYC status pending when the user sells for the first time. The insert
// is conflict-skip on user_id so concurrent checkouts converge on one row.
func (r *gormRepository) EnsureSupplierForUser(userID uint) (*models.Supplier, error) {
	supplier := &models.Supplier{
		UserID:    userID,
		KYCStatus: models.KYCStatusPending,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(supplier).Error; err != nil {
		return nil, err
	}

	var stored models.Supplier
	if err := r.db.Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpsertSubscription writes the fields a checkout completion owns, keyed by
// the supplier_id unique constraint. A supplier re-subscribing after
// cancellation updates the existing row instead of duplicating it.
func (r *gormRepository) UpsertSubscription(sub *models.Subscription) error {
	res := r.db.Model(&models.Subscription{}).
		Where("supplier_id = ?", sub.SupplierID).
		Updates(map[string]interface{}{
			"plan_name":              sub.PlanName,
			"price_cents":            sub.PriceCents,
			"currency":               sub.Currency,
			"status":                 sub.Status,
			"current_period_start":   sub.CurrentPeriodStart,
			"current_period_end":     sub.CurrentPeriodEnd,
			"credits_total":          sub.CreditsTotal,
			"credits_used":           sub.CreditsUsed,
			"stripe_customer_id":     sub.StripeCustomerID,
			"stripe_subscription_id": sub.StripeSubscriptionID,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		// First subscription for this supplier. Conflict-skip covers the
		// concurrent first-checkout race; the loser picks up the winner's
		// row below.
		if err := r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "supplier_id"}},
			DoNothing: true,
		}).Create(sub).Error; err != nil {
			return err
		}
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("supplier_id = ?", sub.SupplierID).First(sub).Error
}

// ActivateSubscriptionCycle applies invoice.paid: credits reset to zero and
// the subscription returns to active, whatever it was before.
func (r *gormRepository) ActivateSubscriptionCycle(stripeSubscriptionID string) (int64, error) {
	tx := r.db.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(map[string]interface{}{
			"credits_used": 0,
			"status":       models.SubscriptionStatusActive,
		})
	return tx.RowsAffected, tx.Error
}

// SyncSubscription writes the fields a customer.subscription.updated event
// owns. An empty status means the provider status has no local equivalent
// and the stored status is left untouched.
func (r *gormRepository) SyncSubscription(stripeSubscriptionID, status string, periodStart, periodEnd *time.Time) (int64, error) {
	updates := map[string]interface{}{
		"current_period_start": periodStart,
		"current_period_end":   periodEnd,
	}
	if status != "" {
		updates["status"] = status
	}
	tx := r.db.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *gormRepository) CancelSubscription(stripeSubscriptionID string) (int64, error) {
	tx := r.db.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Update("status", models.SubscriptionStatusCanceled)
	return tx.RowsAffected, tx.Error
}

func (r *gormRepository) MarkSubscriptionPastDue(stripeSubscriptionID string) (int64, error) {
	tx := r.db.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Update("status", models.SubscriptionStatusPastDue)
	return tx.RowsAffected, tx.Error
}

// CreatePaymentIfNotExists appends a ledger row unless its idempotency key is
// already present. Expressed as a single conflict-skip insert — never
// check-then-insert, which is racy under concurrent redelivery.
func (r *gormRepository) CreatePaymentIfNotExists(payment *models.Payment) (bool, error) {
	var conflictColumn string
	switch {
	case payment.StripeCheckoutSessionID != nil:
		conflictColumn = "stripe_checkout_session_id"
	case payment.StripePaymentIntentID != nil:
		conflictColumn = "stripe_payment_intent_id"
	default:
		return false, gorm.ErrInvalidData
	}

	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: conflictColumn}},
		DoNothing: true,
	}).Create(payment)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) MarkNominationPaid(id uint) error {
	now := time.Now()
	return r.db.Model(&models.Nomination{}).
		Where("id = ? AND payment_status <> ?", id, models.NominationPaymentPaid).
		Updates(map[string]interface{}{
			"payment_status": models.NominationPaymentPaid,
			"paid_at":        &now,
		}).Error
}

func (r *gormRepository) MarkTicketPaid(id uint) error {
	now := time.Now()
	return r.db.Model(&models.Ticket{}).
		Where("id = ? AND payment_status <> ?", id, models.TicketPaymentPaid).
		Updates(map[string]interface{}{
			"payment_status": models.TicketPaymentPaid,
			"paid_at":        &now,
		}).Error
}
