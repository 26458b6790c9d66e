package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/VeluraLiving/Velura/app/models"
	"github.com/VeluraLiving/Velura/app/repository"
	"github.com/VeluraLiving/Velura/internal/pkg/billing"
	"github.com/VeluraLiving/Velura/internal/pkg/usercontext"
)

// CreateCheckoutSessionRequest is the body for POST /api/v1/checkout/sessions.
type CreateCheckoutSessionRequest struct {
	Type         string `json:"type" validate:"required,oneof=subscription nomination ticket"`
	Plan         string `json:"plan"`
	NominationID uint   `json:"nomination_id"`
	TicketID     uint   `json:"ticket_id"`
	SuccessURL   string `json:"success_url" validate:"required,url"`
	CancelURL    string `json:"cancel_url" validate:"required,url"`
}

// HandleCreateCheckoutSession opens a Stripe Checkout session for the
// authenticated user. Nomination and ticket purchases must reference an
// existing unpaid record owned by the caller.
func HandleCreateCheckoutSession(c *fiber.Ctx) error {
	var req CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid checkout request"})
	}

	userID := usercontext.GetUserID(c)
	repos := repository.GetGlobalRepositories()

	checkout := billing.CheckoutRequest{
		UserID:     userID,
		Type:       req.Type,
		Plan:       req.Plan,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	}

	switch req.Type {
	case models.PaymentTypeNomination:
		nomination, err := repos.Nomination.GetByID(req.NominationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Nomination not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Nomination lookup failed"})
		}
		if nomination.UserID != userID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Nomination belongs to another user"})
		}
		if nomination.PaymentStatus == models.NominationPaymentPaid {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already_paid", "message": "Nomination is already paid"})
		}
		checkout.NominationID = nomination.ID
	case models.PaymentTypeTicket:
		ticket, err := repos.Ticket.GetByID(req.TicketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Ticket not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Ticket lookup failed"})
		}
		if ticket.UserID != userID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Ticket belongs to another user"})
		}
		if ticket.PaymentStatus == models.TicketPaymentPaid {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already_paid", "message": "Ticket is already paid"})
		}
		checkout.TicketID = ticket.ID
		checkout.Quantity = int64(ticket.Quantity)
	}

	result, err := billing.CreateCheckoutSession(checkout)
	if err != nil {
		log.Printf("checkout session creation failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "checkout_failed", "message": "Could not create checkout session"})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
