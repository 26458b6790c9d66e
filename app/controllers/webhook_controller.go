package controllers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/VeluraLiving/Velura/internal/pkg/billing"
	"github.com/VeluraLiving/Velura/internal/pkg/database"
	"github.com/VeluraLiving/Velura/internal/pkg/env"
)

// HandleStripeWebhook receives Stripe events. The raw body is journaled
// before any processing so a replayed delivery can be short-circuited, and
// processing failures return 5xx so Stripe redelivers.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("Stripe-Signature")
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	event, err := billing.VerifyStripeWebhook(rawBody, signature, secret)
	if err != nil {
		log.Printf("stripe webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		StripeEventID: event.ID,
		EventType:     string(event.Type),
		PayloadJSON:   string(rawBody),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		// Only short-circuit deliveries that already processed cleanly. A
		// redelivery after a failure is Stripe's retry and must run again.
		if stored.ProcessedAt != nil && stored.ProcessingError == "" {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "duplicate": true})
		}
	}

	dispatchErr := billing.NewDispatcher(svc).Dispatch(ctx, event)
	if err := svc.MarkWebhookProcessed(ctx, stored.ID, dispatchErr); err != nil {
		log.Printf("failed to mark webhook event %d processed: %v", stored.ID, err)
	}
	if dispatchErr != nil {
		log.Printf("stripe event %s (%s) processing failed: %v", event.ID, event.Type, dispatchErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "event_processing_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}
