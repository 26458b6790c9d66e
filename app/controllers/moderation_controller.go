package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/VeluraLiving/Velura/internal/pkg/database"
	"github.com/VeluraLiving/Velura/internal/pkg/moderation"
	"github.com/VeluraLiving/Velura/internal/pkg/usercontext"
)

var validate = validator.New()

// ModerateAdRequest is the body for a single moderation decision.
type ModerateAdRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason"`
}

// BulkModerateRequest applies one decision to many ads.
type BulkModerateRequest struct {
	AdIDs  []uint `json:"ad_ids" validate:"required,min=1,max=100,dive,gt=0"`
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason"`
}

// HandleModerateAd processes POST /api/v1/admin/ads/:id/moderate.
func HandleModerateAd(c *fiber.Ctx) error {
	adID, err := c.ParamsInt("id")
	if err != nil || adID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid ad id"})
	}

	var req ModerateAdRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown_action", "message": "Action must be approve or reject"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gate := moderation.NewGate(database.GetDB())
	ad, err := gate.Moderate(ctx, uint(adID), moderationActor(c), moderation.Decision{
		Action: req.Action,
		Reason: req.Reason,
	})
	if err != nil {
		return moderationError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ad":      ad,
		"message": "Ad " + ad.Status,
	})
}

// HandleBulkModerateAds processes PUT /api/v1/admin/ads/moderate. Each ad is
// decided independently; a failed item never rolls back its neighbors.
func HandleBulkModerateAds(c *fiber.Ctx) error {
	var req BulkModerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid bulk moderation request"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	gate := moderation.NewGate(database.GetDB())
	outcome := gate.ModerateBulk(ctx, req.AdIDs, moderationActor(c), moderation.Decision{
		Action: req.Action,
		Reason: req.Reason,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"results": outcome.Results,
		"summary": outcome.Summary,
	})
}

func moderationActor(c *fiber.Ctx) moderation.Actor {
	return moderation.Actor{
		UserID:    usercontext.GetUserID(c),
		RequestIP: c.IP(),
	}
}

func moderationError(c *fiber.Ctx, err error) error {
	code := moderation.ErrorCode(err)
	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, moderation.ErrAdNotFound):
		status = fiber.StatusNotFound
	case !moderation.IsBusinessError(err):
		log.Printf("moderation failed: %v", err)
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(fiber.Map{"error": code, "message": err.Error()})
}
