package billing

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VeluraLiving/Velura/app/models"
	"github.com/VeluraLiving/Velura/internal/pkg/moderation"
)

// A new supplier checks out a subscription and then spends the granted
// credits on ad approvals, end to end across the webhook handler and the
// moderation gate.
func TestSubscriptionCreditLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceFromDB(db)
	gate := moderation.NewGate(db)
	ctx := context.Background()
	admin := moderation.Actor{UserID: 7, RequestIP: "10.0.0.7"}

	user := seedUser(t, db)
	require.NoError(t, svc.HandleCheckoutCompleted(ctx, subscriptionCheckoutEvent(user.ID)))

	var supplier models.Supplier
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&supplier).Error)

	ads := make([]*models.MarketplaceAd, 4)
	for i := range ads {
		ads[i] = &models.MarketplaceAd{
			UUID:       uuid.New().String(),
			SupplierID: supplier.ID,
			Title:      fmt.Sprintf("Listing %d", i+1),
			Status:     models.AdStatusPending,
		}
		require.NoError(t, db.Create(ads[i]).Error)
	}

	for i := 0; i < 3; i++ {
		got, err := gate.Moderate(ctx, ads[i].ID, admin, moderation.Decision{Action: moderation.ActionApprove})
		require.NoError(t, err, "approval %d within the granted credits", i+1)
		assert.Equal(t, models.AdStatusApproved, got.Status)
	}

	// The fourth approval exceeds the monthly grant.
	_, err := gate.Moderate(ctx, ads[3].ID, admin, moderation.Decision{Action: moderation.ActionApprove})
	require.ErrorIs(t, err, moderation.ErrInsufficientCredits)

	var sub models.Subscription
	require.NoError(t, db.Where("supplier_id = ?", supplier.ID).First(&sub).Error)
	assert.Equal(t, 3, sub.CreditsUsed)
	assert.Equal(t, 3, sub.CreditsTotal)

	var fourth models.MarketplaceAd
	require.NoError(t, db.First(&fourth, ads[3].ID).Error)
	assert.Equal(t, models.AdStatusPending, fourth.Status)

	// The next billing cycle resets the grant and the held-back ad goes live.
	require.NoError(t, svc.HandleInvoicePaid(ctx, &InvoiceEvent{
		CustomerID:   "cus_1",
		Subscription: "sub_1",
	}))

	got, err := gate.Moderate(ctx, ads[3].ID, admin, moderation.Decision{Action: moderation.ActionApprove})
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusApproved, got.Status)

	require.NoError(t, db.Where("supplier_id = ?", supplier.ID).First(&sub).Error)
	assert.Equal(t, 1, sub.CreditsUsed)
}
