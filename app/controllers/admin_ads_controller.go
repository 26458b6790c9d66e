package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/VeluraLiving/Velura/app/models"
	"github.com/VeluraLiving/Velura/app/repository"
)

const adminAdsPageSize = 50

// HandleAdminListAds serves GET /api/v1/admin/ads. The status filter defaults
// to the moderation queue (pending), oldest submissions first.
func HandleAdminListAds(c *fiber.Ctx) error {
	status := c.Query("status", models.AdStatusPending)
	switch status {
	case models.AdStatusDraft, models.AdStatusPending, models.AdStatusApproved,
		models.AdStatusRejected, models.AdStatusExpired:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Unknown ad status"})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * adminAdsPageSize

	adRepo := repository.GetGlobalFactory().GetAdRepository()
	ads, err := adRepo.ListByStatus(status, offset, adminAdsPageSize)
	if err != nil {
		log.Printf("admin ad listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not list ads"})
	}
	total, err := adRepo.CountByStatus(status)
	if err != nil {
		log.Printf("admin ad count failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not count ads"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ads":    ads,
		"status": status,
		"page":   page,
		"total":  total,
	})
}

// HandleAdminExpireSweep serves POST /api/v1/admin/ads/expire-sweep. It flips
// every approved ad whose live window has ended to expired and reports how
// many rows changed.
func HandleAdminExpireSweep(c *fiber.Ctx) error {
	expired, err := repository.GetGlobalFactory().GetAdRepository().ExpireOverdue()
	if err != nil {
		log.Printf("ad expire sweep failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Expire sweep failed"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"expired": expired})
}
