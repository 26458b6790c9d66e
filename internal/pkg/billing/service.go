package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/VeluraLiving/Velura/app/models"
	"gorm.io/gorm"
)

// ErrSubscriptionNotFound is returned when an event references a Stripe
// subscription this system has never seen. The webhook handler surfaces it as
// a server error so the provider redelivers — out-of-order delivery means the
// checkout event creating the row may simply not have arrived yet.
var ErrSubscriptionNotFound = errors.New("no subscription matches stripe subscription id")

// Service reconciles asynchronous Stripe events against local relational
// state. Every handler is an idempotent write keyed by a stable external
// identifier; replaying an event converges to the same final state.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// RecordWebhookEvent persists webhook deliveries idempotently, keyed by the
// Stripe event id.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.StripeWebhookEvent, error) {
	_ = ctx
	eventID := strings.TrimSpace(in.StripeEventID)
	if eventID == "" {
		return false, nil, errors.New("stripe event id is required")
	}

	event := &models.StripeWebhookEvent{
		StripeEventID: eventID,
		EventType:     strings.TrimSpace(in.EventType),
		PayloadJSON:   in.PayloadJSON,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

// HandleCheckoutCompleted reconciles a completed checkout session. For
// subscription checkouts the supplier row is created on the fly (KYC pending)
// before the subscription upsert; nomination and ticket checkouts flip the
// referenced row to paid. Every variant appends an idempotent ledger row
// keyed by the session id.
func (s *Service) HandleCheckoutCompleted(ctx context.Context, ev *CheckoutSessionEvent) error {
	_ = ctx

	switch ev.Metadata.Type {
	case models.PaymentTypeSubscription:
		if err := s.syncSubscriptionCheckout(ev); err != nil {
			return err
		}
	case models.PaymentTypeNomination:
		if ev.Metadata.NominationID == 0 {
			return errors.New("nomination checkout missing nomination_id metadata")
		}
		if err := s.repo.MarkNominationPaid(ev.Metadata.NominationID); err != nil {
			return fmt.Errorf("mark nomination paid: %w", err)
		}
	case models.PaymentTypeTicket:
		if ev.Metadata.TicketID == 0 {
			return errors.New("ticket checkout missing ticket_id metadata")
		}
		if err := s.repo.MarkTicketPaid(ev.Metadata.TicketID); err != nil {
			return fmt.Errorf("mark ticket paid: %w", err)
		}
	default:
		log.Printf("billing: checkout session %s has unmapped type %q, recording ledger row only", ev.ID, ev.Metadata.Type)
	}

	return s.RecordPayment(ctx, NormalizedPayment{
		UserID:            ev.Metadata.UserID,
		Type:              ev.Metadata.Type,
		AmountCents:       ev.AmountTotal,
		Currency:          ev.Currency,
		CheckoutSessionID: ev.ID,
		MetadataJSON:      marshalMetadata(ev.Metadata),
	})
}

func (s *Service) syncSubscriptionCheckout(ev *CheckoutSessionEvent) error {
	supplier, err := s.repo.EnsureSupplierForUser(ev.Metadata.UserID)
	if err != nil {
		return fmt.Errorf("ensure supplier: %w", err)
	}

	planName := ev.Metadata.Plan
	if planName == "" {
		planName = DefaultPlanName
	}

	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)
	sub := &models.Subscription{
		SupplierID:         supplier.ID,
		PlanName:           planName,
		PriceCents:         ev.AmountTotal,
		Currency:           ev.Currency,
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: &now,
		CurrentPeriodEnd:   &periodEnd,
		CreditsTotal:       models.DefaultMonthlyCredits,
		CreditsUsed:        0,
	}
	if ev.CustomerID != "" {
		sub.StripeCustomerID = &ev.CustomerID
	}
	if ev.Subscription != "" {
		sub.StripeSubscriptionID = &ev.Subscription
	}

	if err := s.repo.UpsertSubscription(sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// HandleInvoicePaid resets the credit allowance for a new billing cycle:
// credits_used back to zero, status back to active even from past_due.
func (s *Service) HandleInvoicePaid(ctx context.Context, ev *InvoiceEvent) error {
	_ = ctx
	rows, err := s.repo.ActivateSubscriptionCycle(ev.Subscription)
	if err != nil {
		return fmt.Errorf("activate subscription cycle: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("invoice.paid for %s: %w", ev.Subscription, ErrSubscriptionNotFound)
	}
	return nil
}

// HandleInvoicePaymentFailed soft-locks the subscription: the row persists
// with its credit counters frozen so history stays inspectable.
func (s *Service) HandleInvoicePaymentFailed(ctx context.Context, ev *InvoiceEvent) error {
	_ = ctx
	rows, err := s.repo.MarkSubscriptionPastDue(ev.Subscription)
	if err != nil {
		return fmt.Errorf("mark subscription past_due: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("invoice.payment_failed for %s: %w", ev.Subscription, ErrSubscriptionNotFound)
	}
	return nil
}

// HandleSubscriptionUpdated syncs status and billing period from the provider
// payload. The provider is the source of truth for the fields this event
// owns, so the write is last-write-wins on exactly those fields.
func (s *Service) HandleSubscriptionUpdated(ctx context.Context, ev *SubscriptionEvent) error {
	_ = ctx
	localStatus := StripeSubscriptionStatusToLocal(ev.Status)
	if localStatus == "" && ev.Status != "" {
		log.Printf("billing: subscription %s has unmapped status %q, syncing period only", ev.ID, ev.Status)
	}

	rows, err := s.repo.SyncSubscription(ev.ID, localStatus, ev.PeriodStart, ev.PeriodEnd)
	if err != nil {
		return fmt.Errorf("sync subscription: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("subscription.updated for %s: %w", ev.ID, ErrSubscriptionNotFound)
	}
	return nil
}

// HandleSubscriptionDeleted marks the subscription canceled. The row is kept
// so a later re-subscribe can reactivate it via the checkout upsert.
func (s *Service) HandleSubscriptionDeleted(ctx context.Context, ev *SubscriptionEvent) error {
	_ = ctx
	rows, err := s.repo.CancelSubscription(ev.ID)
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("subscription.deleted for %s: %w", ev.ID, ErrSubscriptionNotFound)
	}
	return nil
}

// HandlePaymentIntentSucceeded appends a ledger row for a direct payment
// intent, keyed by the intent id.
func (s *Service) HandlePaymentIntentSucceeded(ctx context.Context, ev *PaymentIntentEvent) error {
	return s.RecordPayment(ctx, NormalizedPayment{
		UserID:          ev.Metadata.UserID,
		Type:            ev.Metadata.Type,
		AmountCents:     ev.Amount,
		Currency:        ev.Currency,
		PaymentIntentID: ev.ID,
		MetadataJSON:    marshalMetadata(ev.Metadata),
	})
}

// RecordPayment appends a payment ledger row, silently absorbing duplicate
// delivery. A skipped insert is the expected steady state under at-least-once
// delivery, not an error.
func (s *Service) RecordPayment(ctx context.Context, in NormalizedPayment) error {
	_ = ctx
	if in.UserID == 0 {
		return errors.New("payment requires a user id")
	}

	payment := &models.Payment{
		UserID:       in.UserID,
		Type:         NormalizePaymentType(in.Type),
		AmountCents:  in.AmountCents,
		Currency:     in.Currency,
		Status:       models.PaymentStatusSucceeded,
		MetadataJSON: in.MetadataJSON,
	}
	switch {
	case in.CheckoutSessionID != "":
		payment.StripeCheckoutSessionID = &in.CheckoutSessionID
	case in.PaymentIntentID != "":
		payment.StripePaymentIntentID = &in.PaymentIntentID
	default:
		return errors.New("payment requires a checkout session or payment intent id")
	}

	created, err := s.repo.CreatePaymentIfNotExists(payment)
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	if !created {
		log.Printf("billing: payment for %s%s already recorded, skipping", in.CheckoutSessionID, in.PaymentIntentID)
	}
	return nil
}

func marshalMetadata(meta CheckoutMetadata) string {
	raw, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(raw)
}
