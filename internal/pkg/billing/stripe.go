package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// VerifyStripeWebhook authenticates a raw webhook delivery against the
// endpoint secret using the Stripe SDK's canonical signature check. Trust is
// never derived from the unsigned JSON body.
func VerifyStripeWebhook(payload []byte, signatureHeader, webhookSecret string) (stripe.Event, error) {
	if strings.TrimSpace(webhookSecret) == "" {
		return stripe.Event{}, errors.New("stripe webhook secret is not configured")
	}
	return webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
}

// ParseCheckoutSessionEvent extracts the consumed subset of a
// checkout.session.completed payload.
func ParseCheckoutSessionEvent(raw []byte) (*CheckoutSessionEvent, error) {
	var payload struct {
		ID           string            `json:"id"`
		Customer     string            `json:"customer"`
		Subscription string            `json:"subscription"`
		AmountTotal  int64             `json:"amount_total"`
		Currency     string            `json:"currency"`
		Metadata     map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse checkout session: %w", err)
	}
	if strings.TrimSpace(payload.ID) == "" {
		return nil, errors.New("checkout session payload missing id")
	}

	meta, err := parseCheckoutMetadata(payload.Metadata)
	if err != nil {
		return nil, err
	}

	return &CheckoutSessionEvent{
		ID:           strings.TrimSpace(payload.ID),
		CustomerID:   strings.TrimSpace(payload.Customer),
		Subscription: strings.TrimSpace(payload.Subscription),
		AmountTotal:  payload.AmountTotal,
		Currency:     strings.ToLower(strings.TrimSpace(payload.Currency)),
		Metadata:     meta,
	}, nil
}

// ParseInvoiceEvent extracts the consumed subset of invoice.paid and
// invoice.payment_failed payloads.
func ParseInvoiceEvent(raw []byte) (*InvoiceEvent, error) {
	var payload struct {
		Customer     string `json:"customer"`
		Subscription string `json:"subscription"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse invoice: %w", err)
	}
	if strings.TrimSpace(payload.Subscription) == "" {
		return nil, errors.New("invoice payload missing subscription id")
	}
	return &InvoiceEvent{
		CustomerID:   strings.TrimSpace(payload.Customer),
		Subscription: strings.TrimSpace(payload.Subscription),
	}, nil
}

// ParseSubscriptionEvent extracts the consumed subset of
// customer.subscription.updated / .deleted payloads. Period timestamps arrive
// as unix seconds.
func ParseSubscriptionEvent(raw []byte) (*SubscriptionEvent, error) {
	var payload struct {
		ID                 string `json:"id"`
		Status             string `json:"status"`
		CurrentPeriodStart int64  `json:"current_period_start"`
		CurrentPeriodEnd   int64  `json:"current_period_end"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse subscription: %w", err)
	}
	if strings.TrimSpace(payload.ID) == "" {
		return nil, errors.New("subscription payload missing id")
	}

	out := &SubscriptionEvent{
		ID:     strings.TrimSpace(payload.ID),
		Status: strings.ToLower(strings.TrimSpace(payload.Status)),
	}
	if payload.CurrentPeriodStart > 0 {
		t := time.Unix(payload.CurrentPeriodStart, 0).UTC()
		out.PeriodStart = &t
	}
	if payload.CurrentPeriodEnd > 0 {
		t := time.Unix(payload.CurrentPeriodEnd, 0).UTC()
		out.PeriodEnd = &t
	}
	return out, nil
}

// ParsePaymentIntentEvent extracts the consumed subset of a
// payment_intent.succeeded payload.
func ParsePaymentIntentEvent(raw []byte) (*PaymentIntentEvent, error) {
	var payload struct {
		ID       string            `json:"id"`
		Amount   int64             `json:"amount"`
		Currency string            `json:"currency"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse payment intent: %w", err)
	}
	if strings.TrimSpace(payload.ID) == "" {
		return nil, errors.New("payment intent payload missing id")
	}

	meta, err := parseCheckoutMetadata(payload.Metadata)
	if err != nil {
		return nil, err
	}

	return &PaymentIntentEvent{
		ID:       strings.TrimSpace(payload.ID),
		Amount:   payload.Amount,
		Currency: strings.ToLower(strings.TrimSpace(payload.Currency)),
		Metadata: meta,
	}, nil
}

func parseCheckoutMetadata(meta map[string]string) (CheckoutMetadata, error) {
	out := CheckoutMetadata{
		Type: NormalizePaymentType(meta["type"]),
		Plan: strings.TrimSpace(meta["plan"]),
	}

	userID, err := parseMetadataID(meta["user_id"])
	if err != nil || userID == 0 {
		return out, errors.New("metadata missing valid user_id")
	}
	out.UserID = userID

	if out.NominationID, err = parseMetadataID(meta["nomination_id"]); err != nil {
		return out, errors.New("metadata nomination_id is not a valid id")
	}
	if out.TicketID, err = parseMetadataID(meta["ticket_id"]); err != nil {
		return out, errors.New("metadata ticket_id is not a valid id")
	}
	return out, nil
}

func parseMetadataID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
