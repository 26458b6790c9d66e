package billing

import (
	"strings"

	"github.com/VeluraLiving/Velura/app/models"
)

// NormalizePaymentType maps the metadata type bag onto the payment ledger
// enum. Anything unrecognized is recorded as unknown rather than rejected —
// the ledger still wants the row.
func NormalizePaymentType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.PaymentTypeSubscription:
		return models.PaymentTypeSubscription
	case models.PaymentTypeNomination:
		return models.PaymentTypeNomination
	case models.PaymentTypeTicket:
		return models.PaymentTypeTicket
	default:
		return models.PaymentTypeUnknown
	}
}

// StripeSubscriptionStatusToLocal maps Stripe subscription statuses onto the
// local enum. Statuses with no local equivalent return "" so the sync leaves
// the stored status untouched (the period fields are still written).
func StripeSubscriptionStatusToLocal(stripeStatus string) string {
	switch strings.ToLower(strings.TrimSpace(stripeStatus)) {
	case "active", "trialing":
		return models.SubscriptionStatusActive
	case "past_due", "unpaid", "incomplete":
		return models.SubscriptionStatusPastDue
	case "canceled", "incomplete_expired":
		return models.SubscriptionStatusCanceled
	default:
		return ""
	}
}
