package moderation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/VeluraLiving/Velura/app/models"
	"github.com/VeluraLiving/Velura/internal/pkg/audit"
	"gorm.io/gorm"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Actor identifies the admin performing a moderation decision.
type Actor struct {
	UserID    uint
	RequestIP string
}

// Decision is a single moderation verdict. Reason is required for reject and
// ignored for approve.
type Decision struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason"`
}

// Gate runs the pending → approved/rejected transition for marketplace ads.
// Approval consumes one subscription credit; the credit increment and the ad
// update happen in one database transaction or not at all. There is no
// in-process locking — the database serializes conflicting writers.
type Gate struct {
	db *gorm.DB
}

// NewGate creates a moderation gate over the given DB handle.
func NewGate(db *gorm.DB) *Gate {
	return &Gate{db: db}
}

// Moderate applies one decision to one ad and returns the updated ad.
// Preconditions are verified before any write; business-rule failures come
// back as the typed errors in errors.go.
func (g *Gate) Moderate(ctx context.Context, adID uint, actor Actor, dec Decision) (*models.MarketplaceAd, error) {
	switch dec.Action {
	case ActionApprove:
		return g.approve(ctx, adID, actor)
	case ActionReject:
		if strings.TrimSpace(dec.Reason) == "" {
			return nil, ErrReasonRequired
		}
		return g.reject(ctx, adID, actor, strings.TrimSpace(dec.Reason))
	default:
		return nil, ErrUnknownAction
	}
}

func (g *Gate) approve(ctx context.Context, adID uint, actor Actor) (*models.MarketplaceAd, error) {
	var before, after models.MarketplaceAd

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ad, err := loadPendingAd(tx, adID)
		if err != nil {
			return err
		}
		before = *ad

		var sub models.Subscription
		if err := tx.Where("supplier_id = ?", ad.SupplierID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveSubscription
			}
			return err
		}
		if !sub.IsActive() {
			return ErrNoActiveSubscription
		}
		if sub.CreditsRemaining() < 1 {
			return ErrInsufficientCredits
		}

		// Guarded increment: the WHERE clause re-checks the allowance so
		// concurrent approvals cannot push credits_used past credits_total.
		res := tx.Model(&models.Subscription{}).
			Where("id = ? AND credits_used < credits_total", sub.ID).
			UpdateColumn("credits_used", gorm.Expr("credits_used + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCredits
		}

		now := time.Now()
		expiresAt := now.Add(models.AdLiveDuration)
		updates := map[string]interface{}{
			"status":            models.AdStatusApproved,
			"go_live_at":        &now,
			"expires_at":        &expiresAt,
			"moderation_reason": nil,
			"moderated_by_id":   actor.UserID,
			"moderated_at":      &now,
		}
		// Guarded on status so a concurrent moderator who already decided
		// this ad makes the update match zero rows; the error rolls the
		// credit increment back with it.
		adRes := tx.Model(ad).Where("status = ?", models.AdStatusPending).Updates(updates)
		if adRes.Error != nil {
			return adRes.Error
		}
		if adRes.RowsAffected == 0 {
			return currentStatusError(tx, adID)
		}

		after = *ad
		after.Status = models.AdStatusApproved
		after.GoLiveAt = &now
		after.ExpiresAt = &expiresAt
		after.ModerationReason = nil
		after.ModeratedByID = &actor.UserID
		after.ModeratedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit.Record(g.db, audit.Entry{
		ActorID:    actor.UserID,
		Action:     ActionApprove,
		EntityType: "marketplace_ad",
		EntityID:   after.ID,
		Before:     before,
		After:      after,
		RequestIP:  actor.RequestIP,
	})
	return &after, nil
}

func (g *Gate) reject(ctx context.Context, adID uint, actor Actor, reason string) (*models.MarketplaceAd, error) {
	ad, err := loadPendingAd(g.db.WithContext(ctx), adID)
	if err != nil {
		return nil, err
	}
	before := *ad

	// Rejection never touches credits, so a single-row update suffices.
	now := time.Now()
	updates := map[string]interface{}{
		"status":            models.AdStatusRejected,
		"moderation_reason": reason,
		"moderated_by_id":   actor.UserID,
		"moderated_at":      &now,
	}
	res := g.db.WithContext(ctx).Model(ad).Where("status = ?", models.AdStatusPending).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, currentStatusError(g.db.WithContext(ctx), adID)
	}

	after := *ad
	after.Status = models.AdStatusRejected
	after.ModerationReason = &reason
	after.ModeratedByID = &actor.UserID
	after.ModeratedAt = &now

	audit.Record(g.db, audit.Entry{
		ActorID:    actor.UserID,
		Action:     ActionReject,
		EntityType: "marketplace_ad",
		EntityID:   after.ID,
		Before:     before,
		After:      after,
		RequestIP:  actor.RequestIP,
	})
	return &after, nil
}

// currentStatusError reports why a status-guarded ad update matched no rows:
// the ad vanished or another moderator decided it first.
func currentStatusError(tx *gorm.DB, adID uint) error {
	var ad models.MarketplaceAd
	if err := tx.Select("status").First(&ad, adID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdNotFound
		}
		return err
	}
	return &NotPendingError{Status: ad.Status}
}

func loadPendingAd(tx *gorm.DB, adID uint) (*models.MarketplaceAd, error) {
	var ad models.MarketplaceAd
	if err := tx.First(&ad, adID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	if ad.Status != models.AdStatusPending {
		return nil, &NotPendingError{Status: ad.Status}
	}
	return &ad, nil
}
