package billing

import (
	"context"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v82"
)

// Dispatcher routes a verified Stripe event to exactly one handler. It holds
// no state beyond the service; correctness under concurrent deliveries rests
// entirely on the database writes the handlers perform.
type Dispatcher struct {
	svc *Service
}

// NewDispatcher creates a dispatcher over the given billing service.
func NewDispatcher(svc *Service) *Dispatcher {
	return &Dispatcher{svc: svc}
}

// Dispatch maps the event type to its handler. Unknown types are logged and
// acknowledged (nil) so the provider stops redelivering them. Handler errors
// propagate so the caller can answer 500 and lean on provider redelivery.
func (d *Dispatcher) Dispatch(ctx context.Context, event stripe.Event) error {
	log.Printf("billing: dispatching stripe event %s type=%s", event.ID, event.Type)

	switch string(event.Type) {
	case EventCheckoutCompleted:
		ev, err := ParseCheckoutSessionEvent(event.Data.Raw)
		if err != nil {
			return fmt.Errorf("%s: %w", event.Type, err)
		}
		return d.svc.HandleCheckoutCompleted(ctx, ev)

	case EventInvoicePaid:
		ev, err := ParseInvoiceEvent(event.Data.Raw)
		if err != nil {
			return fmt.Errorf("%s: %w", event.Type, err)
		}
		return d.svc.HandleInvoicePaid(ctx, ev)

	case EventInvoicePaymentFail:
		ev, err := ParseInvoiceEvent(event.Data.Raw)
		if err != nil {
			return fmt.Errorf("%s: %w", event.Type, err)
		}
		return d.svc.HandleInvoicePaymentFailed(ctx, ev)

	case EventSubscriptionUpdated:
		ev, err := ParseSubscriptionEvent(event.Data.Raw)
		if err != nil {
			return fmt.Errorf("%s: %w", event.Type, err)
		}
		return d.svc.HandleSubscriptionUpdated(ctx, ev)

	case EventSubscriptionDeleted:
		ev, err := ParseSubscriptionEvent(event.Data.Raw)
		if err != nil {
			return fmt.Errorf("%s: %w", event.Type, err)
		}
		return d.svc.HandleSubscriptionDeleted(ctx, ev)

	case EventPaymentIntentOK:
		ev, err := ParsePaymentIntentEvent(event.Data.Raw)
		if err != nil {
			return fmt.Errorf("%s: %w", event.Type, err)
		}
		return d.svc.HandlePaymentIntentSucceeded(ctx, ev)

	default:
		log.Printf("billing: ignoring unhandled stripe event type %s", event.Type)
		return nil
	}
}
