package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/VeluraLiving/Velura/app/repository"
	"github.com/VeluraLiving/Velura/internal/pkg/audit"
	"github.com/VeluraLiving/Velura/internal/pkg/database"
	"github.com/VeluraLiving/Velura/internal/pkg/usercontext"
)

const adminSuppliersPageSize = 50

// UpdateKYCRequest is the body for PUT /api/v1/admin/suppliers/:id/kyc.
type UpdateKYCRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified rejected"`
}

// HandleAdminListSuppliers serves GET /api/v1/admin/suppliers.
func HandleAdminListSuppliers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	repo := repository.GetGlobalFactory().GetSupplierRepository()
	suppliers, err := repo.List((page-1)*adminSuppliersPageSize, adminSuppliersPageSize)
	if err != nil {
		log.Printf("supplier listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not list suppliers"})
	}
	total, err := repo.Count()
	if err != nil {
		log.Printf("supplier count failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not count suppliers"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"suppliers": suppliers,
		"page":      page,
		"total":     total,
	})
}

// HandleAdminUpdateKYC serves PUT /api/v1/admin/suppliers/:id/kyc. KYC
// transitions are audited with the supplier's before and after state.
func HandleAdminUpdateKYC(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid supplier id"})
	}

	var req UpdateKYCRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Unknown KYC status"})
	}

	repo := repository.GetGlobalFactory().GetSupplierRepository()
	supplier, err := repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "supplier_not_found", "message": "Supplier not found"})
		}
		log.Printf("supplier lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load supplier"})
	}

	before := *supplier
	if err := repo.UpdateKYCStatus(supplier.ID, req.Status); err != nil {
		log.Printf("kyc update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not update KYC status"})
	}
	supplier.KYCStatus = req.Status

	audit.Record(database.GetDB(), audit.Entry{
		ActorID:    usercontext.GetUserID(c),
		Action:     "kyc_" + req.Status,
		EntityType: "supplier",
		EntityID:   supplier.ID,
		Before:     before,
		After:      *supplier,
		RequestIP:  c.IP(),
	})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"supplier": supplier, "message": "KYC status updated"})
}
