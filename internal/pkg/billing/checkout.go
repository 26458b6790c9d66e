package billing

import (
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/VeluraLiving/Velura/app/models"
	"github.com/VeluraLiving/Velura/internal/pkg/env"
)

// CheckoutRequest describes the session a caller wants opened.
type CheckoutRequest struct {
	UserID       uint
	Type         string
	Plan         string
	NominationID uint
	TicketID     uint
	Quantity     int64
	SuccessURL   string
	CancelURL    string
}

// CheckoutResult is the subset of the created session the API returns.
type CheckoutResult struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// CreateCheckoutSession opens a Stripe Checkout session for a subscription,
// nomination fee, or ticket purchase. Metadata written here is the contract
// the checkout.session.completed handler reads back.
func CreateCheckoutSession(req CheckoutRequest) (*CheckoutResult, error) {
	stripe.Key = env.GetEnv("STRIPE_SECRET_KEY", "")
	if stripe.Key == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is not configured")
	}

	metadata := map[string]string{
		"user_id": strconv.FormatUint(uint64(req.UserID), 10),
		"type":    req.Type,
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}

	switch req.Type {
	case models.PaymentTypeSubscription:
		plan := req.Plan
		if plan == "" {
			plan = DefaultPlanName
		}
		priceID := env.GetEnv("STRIPE_PRICE_SUPPLIER_MONTHLY", "")
		if priceID == "" {
			return nil, fmt.Errorf("STRIPE_PRICE_SUPPLIER_MONTHLY is not configured")
		}
		metadata["plan"] = plan
		params.Mode = stripe.String(string(stripe.CheckoutSessionModeSubscription))
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		}
	case models.PaymentTypeNomination:
		if req.NominationID == 0 {
			return nil, fmt.Errorf("nomination checkout requires a nomination id")
		}
		metadata["nomination_id"] = strconv.FormatUint(uint64(req.NominationID), 10)
		params.Mode = stripe.String(string(stripe.CheckoutSessionModePayment))
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{
			oneOffLineItem("Award Nomination Fee", envPriceCents("NOMINATION_PRICE_CENTS", 25000), 1),
		}
	case models.PaymentTypeTicket:
		if req.TicketID == 0 {
			return nil, fmt.Errorf("ticket checkout requires a ticket id")
		}
		qty := req.Quantity
		if qty < 1 {
			qty = 1
		}
		metadata["ticket_id"] = strconv.FormatUint(uint64(req.TicketID), 10)
		params.Mode = stripe.String(string(stripe.CheckoutSessionModePayment))
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{
			oneOffLineItem("Event Ticket", envPriceCents("TICKET_PRICE_CENTS", 15000), qty),
		}
	default:
		return nil, fmt.Errorf("unsupported checkout type %q", req.Type)
	}

	params.Metadata = metadata

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutResult{SessionID: sess.ID, CheckoutURL: sess.URL}, nil
}

func oneOffLineItem(name string, unitAmountCents int64, quantity int64) *stripe.CheckoutSessionLineItemParams {
	return &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency: stripe.String(env.GetEnv("CHECKOUT_CURRENCY", "eur")),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(name),
			},
			UnitAmount: stripe.Int64(unitAmountCents),
		},
		Quantity: stripe.Int64(quantity),
	}
}

func envPriceCents(key string, def int64) int64 {
	raw := env.GetEnv(key, "")
	if raw == "" {
		return def
	}
	cents, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || cents <= 0 {
		return def
	}
	return cents
}
