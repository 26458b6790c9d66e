package billing

import "time"

// Stripe event types the dispatcher routes. Everything else is logged and
// acknowledged so Stripe does not endlessly redeliver events this system has
// no interest in.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventInvoicePaid         = "invoice.paid"
	EventInvoicePaymentFail  = "invoice.payment_failed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventPaymentIntentOK     = "payment_intent.succeeded"
)

// DefaultPlanName is used when checkout metadata omits an explicit plan.
const DefaultPlanName = "supplier_monthly"

// CheckoutMetadata is the narrow, validated shape of the free-form metadata
// bag our checkout sessions carry. Malformed provider payloads are caught
// here at the boundary instead of deep inside handler logic.
type CheckoutMetadata struct {
	UserID       uint
	Type         string
	Plan         string
	NominationID uint
	TicketID     uint
}

// CheckoutSessionEvent is the subset of a checkout.session.completed payload
// this system consumes; all other fields are ignored.
type CheckoutSessionEvent struct {
	ID           string
	CustomerID   string
	Subscription string
	AmountTotal  int64
	Currency     string
	Metadata     CheckoutMetadata
}

// InvoiceEvent covers invoice.paid and invoice.payment_failed.
type InvoiceEvent struct {
	CustomerID   string
	Subscription string
}

// SubscriptionEvent covers customer.subscription.updated and .deleted.
type SubscriptionEvent struct {
	ID          string
	Status      string
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

// PaymentIntentEvent is the subset of a payment_intent.succeeded payload.
type PaymentIntentEvent struct {
	ID       string
	Amount   int64
	Currency string
	Metadata CheckoutMetadata
}

// NormalizedPayment is the provider-agnostic input for the payment ledger.
// Exactly one of CheckoutSessionID / PaymentIntentID is set.
type NormalizedPayment struct {
	UserID            uint
	Type              string
	AmountCents       int64
	Currency          string
	CheckoutSessionID string
	PaymentIntentID   string
	MetadataJSON      string
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	StripeEventID string
	EventType     string
	PayloadJSON   string
}
