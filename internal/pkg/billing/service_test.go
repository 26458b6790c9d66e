package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VeluraLiving/Velura/app/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.Subscription{},
		&models.Payment{},
		&models.MarketplaceAd{},
		&models.Nomination{},
		&models.Ticket{},
		&models.AuditLog{},
		&models.StripeWebhookEvent{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Aurelia Laurent",
		Email:    "aurelia@example.com",
		Password: "secret-hash",
		Role:     models.ROLE_USER,
		Status:   models.STATUS_ACTIVE,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func subscriptionCheckoutEvent(userID uint) *CheckoutSessionEvent {
	return &CheckoutSessionEvent{
		ID:           "cs_test_1",
		CustomerID:   "cus_1",
		Subscription: "sub_1",
		AmountTotal:  9900,
		Currency:     "eur",
		Metadata: CheckoutMetadata{
			UserID: userID,
			Type:   models.PaymentTypeSubscription,
			Plan:   "supplier_monthly",
		},
	}
}

func TestRecordWebhookEventDeduplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()

	in := WebhookEventInput{
		StripeEventID: "evt_dup",
		EventType:     EventInvoicePaid,
		PayloadJSON:   `{"id":"evt_dup"}`,
	}

	created, stored, err := svc.RecordWebhookEvent(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, stored)

	createdAgain, storedAgain, err := svc.RecordWebhookEvent(ctx, in)
	require.NoError(t, err)
	assert.False(t, createdAgain, "redelivery must not count as a new event")
	assert.Equal(t, stored.ID, storedAgain.ID)

	var count int64
	require.NoError(t, db.Model(&models.StripeWebhookEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMarkWebhookProcessedStoresError(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()

	_, stored, err := svc.RecordWebhookEvent(ctx, WebhookEventInput{
		StripeEventID: "evt_1",
		EventType:     EventInvoicePaid,
		PayloadJSON:   "{}",
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkWebhookProcessed(ctx, stored.ID, errors.New("boom")))

	var row models.StripeWebhookEvent
	require.NoError(t, db.First(&row, stored.ID).Error)
	require.NotNil(t, row.ProcessedAt)
	assert.Equal(t, "boom", row.ProcessingError)
}

func TestCheckoutCompletedGrantsSubscriptionCredits(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	require.NoError(t, svc.HandleCheckoutCompleted(ctx, subscriptionCheckoutEvent(user.ID)))

	var supplier models.Supplier
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&supplier).Error)
	assert.Equal(t, models.KYCStatusPending, supplier.KYCStatus)

	var sub models.Subscription
	require.NoError(t, db.Where("supplier_id = ?", supplier.ID).First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, models.DefaultMonthlyCredits, sub.CreditsTotal)
	assert.Equal(t, 0, sub.CreditsUsed)
	assert.Equal(t, "supplier_monthly", sub.PlanName)
	require.NotNil(t, sub.CurrentPeriodStart)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.True(t, sub.CurrentPeriodEnd.After(*sub.CurrentPeriodStart))
	require.NotNil(t, sub.StripeSubscriptionID)
	assert.Equal(t, "sub_1", *sub.StripeSubscriptionID)

	var payments int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&payments).Error)
	assert.Equal(t, int64(1), payments)
}

func TestCheckoutCompletedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	ev := subscriptionCheckoutEvent(user.ID)
	require.NoError(t, svc.HandleCheckoutCompleted(ctx, ev))
	require.NoError(t, svc.HandleCheckoutCompleted(ctx, ev))

	var payments int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&payments).Error)
	assert.Equal(t, int64(1), payments, "duplicate delivery must not create a second ledger row")

	var subs int64
	require.NoError(t, db.Model(&models.Subscription{}).Count(&subs).Error)
	assert.Equal(t, int64(1), subs)

	var suppliers int64
	require.NoError(t, db.Model(&models.Supplier{}).Count(&suppliers).Error)
	assert.Equal(t, int64(1), suppliers)
}

func TestResubscribeUpdatesExistingRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	require.NoError(t, svc.HandleCheckoutCompleted(ctx, subscriptionCheckoutEvent(user.ID)))
	require.NoError(t, svc.HandleSubscriptionDeleted(ctx, &SubscriptionEvent{ID: "sub_1", Status: "canceled"}))

	ev := subscriptionCheckoutEvent(user.ID)
	ev.ID = "cs_test_2"
	ev.Subscription = "sub_2"
	require.NoError(t, svc.HandleCheckoutCompleted(ctx, ev))

	var subs []models.Subscription
	require.NoError(t, db.Find(&subs).Error)
	require.Len(t, subs, 1, "re-subscribing must reuse the supplier's subscription row")
	assert.Equal(t, models.SubscriptionStatusActive, subs[0].Status)
	assert.Equal(t, 0, subs[0].CreditsUsed)
	require.NotNil(t, subs[0].StripeSubscriptionID)
	assert.Equal(t, "sub_2", *subs[0].StripeSubscriptionID)
}

func TestCheckoutCompletedMarksNominationPaid(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	nomination := &models.Nomination{UserID: user.ID, AwardName: "Hotel of the Year", Nominee: "Villa Aurora"}
	require.NoError(t, db.Create(nomination).Error)

	ev := &CheckoutSessionEvent{
		ID:          "cs_nom_1",
		AmountTotal: 25000,
		Currency:    "eur",
		Metadata: CheckoutMetadata{
			UserID:       user.ID,
			Type:         models.PaymentTypeNomination,
			NominationID: nomination.ID,
		},
	}
	require.NoError(t, svc.HandleCheckoutCompleted(ctx, ev))

	var stored models.Nomination
	require.NoError(t, db.First(&stored, nomination.ID).Error)
	assert.Equal(t, models.NominationPaymentPaid, stored.PaymentStatus)
	require.NotNil(t, stored.PaidAt)
	firstPaidAt := *stored.PaidAt

	// Redelivery keeps the original paid_at.
	require.NoError(t, svc.HandleCheckoutCompleted(ctx, ev))
	require.NoError(t, db.First(&stored, nomination.ID).Error)
	require.NotNil(t, stored.PaidAt)
	assert.True(t, stored.PaidAt.Equal(firstPaidAt))
}

func TestCheckoutCompletedMarksTicketPaid(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	ticket := &models.Ticket{UserID: user.ID, EventName: "Winter Gala", Quantity: 2}
	require.NoError(t, db.Create(ticket).Error)

	ev := &CheckoutSessionEvent{
		ID:          "cs_tix_1",
		AmountTotal: 30000,
		Currency:    "eur",
		Metadata: CheckoutMetadata{
			UserID:   user.ID,
			Type:     models.PaymentTypeTicket,
			TicketID: ticket.ID,
		},
	}
	require.NoError(t, svc.HandleCheckoutCompleted(ctx, ev))

	var stored models.Ticket
	require.NoError(t, db.First(&stored, ticket.ID).Error)
	assert.Equal(t, models.TicketPaymentPaid, stored.PaymentStatus)
	require.NotNil(t, stored.PaidAt)
}

func TestInvoicePaidResetsCreditCycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	require.NoError(t, svc.HandleCheckoutCompleted(ctx, subscriptionCheckoutEvent(user.ID)))
	require.NoError(t, db.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", "sub_1").
		Updates(map[string]interface{}{
			"credits_used": 2,
			"status":       models.SubscriptionStatusPastDue,
		}).Error)

	require.NoError(t, svc.HandleInvoicePaid(ctx, &InvoiceEvent{Subscription: "sub_1"}))

	var sub models.Subscription
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_1").First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, 0, sub.CreditsUsed)
	assert.Equal(t, models.DefaultMonthlyCredits, sub.CreditsTotal)
}

func TestInvoicePaymentFailedMarksPastDue(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	require.NoError(t, svc.HandleCheckoutCompleted(ctx, subscriptionCheckoutEvent(user.ID)))
	require.NoError(t, svc.HandleInvoicePaymentFailed(ctx, &InvoiceEvent{Subscription: "sub_1"}))

	var sub models.Subscription
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_1").First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusPastDue, sub.Status)
	assert.Equal(t, 0, sub.CreditsUsed, "payment failure must not touch credit usage")
}

func TestSubscriptionDeletedCancels(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	require.NoError(t, svc.HandleCheckoutCompleted(ctx, subscriptionCheckoutEvent(user.ID)))
	require.NoError(t, svc.HandleSubscriptionDeleted(ctx, &SubscriptionEvent{ID: "sub_1", Status: "canceled"}))

	var sub models.Subscription
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_1").First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
}

func TestSubscriptionUpdatedSyncsPeriodAndStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	require.NoError(t, svc.HandleCheckoutCompleted(ctx, subscriptionCheckoutEvent(user.ID)))

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	require.NoError(t, svc.HandleSubscriptionUpdated(ctx, &SubscriptionEvent{
		ID:          "sub_1",
		Status:      "past_due",
		PeriodStart: &start,
		PeriodEnd:   &end,
	}))

	var sub models.Subscription
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_1").First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusPastDue, sub.Status)
	require.NotNil(t, sub.CurrentPeriodStart)
	assert.True(t, sub.CurrentPeriodStart.Equal(start))

	// Unmapped provider status still syncs the period but leaves the local
	// status alone.
	later := end.AddDate(0, 1, 0)
	require.NoError(t, svc.HandleSubscriptionUpdated(ctx, &SubscriptionEvent{
		ID:          "sub_1",
		Status:      "paused",
		PeriodStart: &end,
		PeriodEnd:   &later,
	}))
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_1").First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusPastDue, sub.Status)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.True(t, sub.CurrentPeriodEnd.Equal(later))
}

func TestEventsForUnknownSubscriptionError(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()

	err := svc.HandleInvoicePaid(ctx, &InvoiceEvent{Subscription: "sub_ghost"})
	assert.True(t, errors.Is(err, ErrSubscriptionNotFound))

	err = svc.HandleSubscriptionUpdated(ctx, &SubscriptionEvent{ID: "sub_ghost", Status: "active"})
	assert.True(t, errors.Is(err, ErrSubscriptionNotFound))

	err = svc.HandleSubscriptionDeleted(ctx, &SubscriptionEvent{ID: "sub_ghost", Status: "canceled"})
	assert.True(t, errors.Is(err, ErrSubscriptionNotFound))
}

func TestOutOfOrderDeliveryConvergesOnRetry(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	// invoice.paid arrives before the checkout that creates the
	// subscription: the first attempt fails so the provider redelivers.
	err := svc.HandleInvoicePaid(ctx, &InvoiceEvent{Subscription: "sub_1"})
	require.True(t, errors.Is(err, ErrSubscriptionNotFound))

	require.NoError(t, svc.HandleCheckoutCompleted(ctx, subscriptionCheckoutEvent(user.ID)))

	// The redelivery now lands.
	require.NoError(t, svc.HandleInvoicePaid(ctx, &InvoiceEvent{Subscription: "sub_1"}))

	var sub models.Subscription
	require.NoError(t, db.Where("stripe_subscription_id = ?", "sub_1").First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
}

func TestHandlePaymentIntentSucceededRecordsLedgerRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	ctx := context.Background()
	user := seedUser(t, db)

	ev := &PaymentIntentEvent{
		ID:       "pi_1",
		Amount:   25000,
		Currency: "eur",
		Metadata: CheckoutMetadata{UserID: user.ID, Type: models.PaymentTypeNomination},
	}
	require.NoError(t, svc.HandlePaymentIntentSucceeded(ctx, ev))
	require.NoError(t, svc.HandlePaymentIntentSucceeded(ctx, ev))

	var payments []models.Payment
	require.NoError(t, db.Find(&payments).Error)
	require.Len(t, payments, 1)
	require.NotNil(t, payments[0].StripePaymentIntentID)
	assert.Equal(t, "pi_1", *payments[0].StripePaymentIntentID)
	assert.Equal(t, models.PaymentTypeNomination, payments[0].Type)
}
