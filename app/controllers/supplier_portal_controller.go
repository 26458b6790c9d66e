package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/VeluraLiving/Velura/app/models"
	"github.com/VeluraLiving/Velura/app/repository"
	"github.com/VeluraLiving/Velura/internal/pkg/usercontext"
)

const portalPageSize = 25

// currentSupplier resolves the supplier identity of the authenticated user.
func currentSupplier(c *fiber.Ctx) (*models.Supplier, error) {
	return repository.GetGlobalFactory().GetSupplierRepository().
		GetByUserID(usercontext.GetUserID(c))
}

// HandleListMyAds serves GET /api/v1/ads: the authenticated supplier's own
// ads, newest first.
func HandleListMyAds(c *fiber.Ctx) error {
	supplier, err := currentSupplier(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_a_supplier", "message": "No supplier identity for this account"})
		}
		log.Printf("supplier lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not resolve supplier"})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	ads, err := repository.GetGlobalFactory().GetAdRepository().
		ListBySupplier(supplier.ID, (page-1)*portalPageSize, portalPageSize)
	if err != nil {
		log.Printf("supplier ad listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not list ads"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ads": ads, "page": page})
}

// HandleGetMyAd serves GET /api/v1/ads/:uuid. Ads owned by other suppliers
// are reported as not found.
func HandleGetMyAd(c *fiber.Ctx) error {
	supplier, err := currentSupplier(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_a_supplier", "message": "No supplier identity for this account"})
		}
		log.Printf("supplier lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not resolve supplier"})
	}

	ad, err := repository.GetGlobalFactory().GetAdRepository().GetByUUID(c.Params("uuid"))
	if err != nil || ad.SupplierID != supplier.ID {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("ad lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load ad"})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ad_not_found", "message": "Ad not found"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ad": ad})
}

// HandleSubmitAd serves POST /api/v1/ads/:uuid/submit, moving the caller's
// draft ad into the moderation queue.
func HandleSubmitAd(c *fiber.Ctx) error {
	supplier, err := currentSupplier(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_a_supplier", "message": "No supplier identity for this account"})
		}
		log.Printf("supplier lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not resolve supplier"})
	}

	adRepo := repository.GetGlobalFactory().GetAdRepository()
	ad, err := adRepo.GetByUUID(c.Params("uuid"))
	if err != nil || ad.SupplierID != supplier.ID {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("ad lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load ad"})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ad_not_found", "message": "Ad not found"})
	}
	if ad.Status != models.AdStatusDraft {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "not_draft", "message": "Only draft ads can be submitted"})
	}

	if err := adRepo.SubmitForModeration(ad.ID); err != nil {
		log.Printf("ad submission failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not submit ad"})
	}
	ad.Status = models.AdStatusPending
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ad": ad, "message": "Ad submitted for moderation"})
}

// HandleListMyPayments serves GET /api/v1/payments: the authenticated user's
// ledger rows, newest first.
func HandleListMyPayments(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	payRepo := repository.GetGlobalFactory().GetPaymentRepository()
	payments, err := payRepo.ListByUser(userID, (page-1)*portalPageSize, portalPageSize)
	if err != nil {
		log.Printf("payment listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not list payments"})
	}
	total, err := payRepo.CountByUser(userID)
	if err != nil {
		log.Printf("payment count failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not count payments"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"payments": payments, "page": page, "total": total})
}

// HandleGetMyPayment serves GET /api/v1/payments/:id. Other users' ledger
// rows are reported as not found.
func HandleGetMyPayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid payment id"})
	}

	payment, err := repository.GetGlobalFactory().GetPaymentRepository().GetByID(uint(id))
	if err != nil || payment.UserID != usercontext.GetUserID(c) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("payment lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load payment"})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "payment_not_found", "message": "Payment not found"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"payment": payment})
}
