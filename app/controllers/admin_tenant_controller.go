package controllers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
)

type tenantCreateRequest struct {
	UserID  uint   `json:"user_id"`
	SiteURL string `json:"site_url"`
	PlanID  *uint  `json:"plan_id"`
	BrandID *uint  `json:"brand_id"`
}

// HandleAdminTenantList returns a page of tenants
func HandleAdminTenantList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 25)
	if limit < 1 || limit > 100 {
		limit = 25
	}

	tenants, err := repos().Tenant.List((page-1)*limit, limit)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load tenants")
	}
	total, err := repos().Tenant.Count()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to count tenants")
	}

	return respondSuccess(c, fiber.Map{
		"tenants": tenants,
		"total":   total,
		"page":    page,
	})
}

// HandleAdminTenantCreate provisions a tenant with fresh keys. The
// tenant starts in pending_site until a site activates the license.
func HandleAdminTenantCreate(c *fiber.Ctx) error {
	var req tenantCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.UserID == 0 {
		return respondError(c, fiber.StatusBadRequest, "user_id is required")
	}
	if _, err := repos().User.GetByID(req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fiber.StatusNotFound, "Unknown user")
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	tenant, err := models.CreateTenant(req.UserID, req.SiteURL)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to generate tenant keys")
	}
	tenant.PlanID = req.PlanID
	tenant.BrandID = req.BrandID

	if err := tenant.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().Tenant.Create(tenant); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to create tenant")
	}

	return respondSuccess(c, tenant)
}

// HandleAdminTenantGet returns one tenant
func HandleAdminTenantGet(c *fiber.Ctx) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}
	return respondSuccess(c, tenant)
}

type tenantUpdateRequest struct {
	SiteURL     *string `json:"site_url"`
	PlanID      *uint   `json:"plan_id"`
	BrandID     *uint   `json:"brand_id"`
	CanPurchase *bool   `json:"can_purchase"`
}

// HandleAdminTenantUpdate applies partial edits to a tenant
func HandleAdminTenantUpdate(c *fiber.Ctx) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}

	var req tenantUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.SiteURL != nil {
		tenant.SiteURL = *req.SiteURL
	}
	if req.PlanID != nil {
		if _, err := repos().Plan.GetByID(*req.PlanID); err != nil {
			return respondError(c, fiber.StatusNotFound, "Unknown plan")
		}
		tenant.PlanID = req.PlanID
	}
	if req.BrandID != nil {
		tenant.BrandID = req.BrandID
	}
	if req.CanPurchase != nil {
		tenant.CanPurchase = req.CanPurchase
	}

	if err := repos().Tenant.Update(tenant); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to update tenant")
	}
	return respondSuccess(c, tenant)
}

// HandleAdminTenantSuspend suspends a tenant. Suspended tenants fail
// API authentication with the same response as unknown credentials.
func HandleAdminTenantSuspend(c *fiber.Ctx) error {
	return setTenantStatus(c, models.TenantStatusSuspended, "Tenant suspended")
}

// HandleAdminTenantActivate reactivates a suspended tenant
func HandleAdminTenantActivate(c *fiber.Ctx) error {
	return setTenantStatus(c, models.TenantStatusActive, "Tenant activated")
}

func setTenantStatus(c *fiber.Ctx, status string, message string) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}
	tenant.Status = status
	if err := repos().Tenant.Update(tenant); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to update tenant")
	}
	return respondSuccess(c, fiber.Map{"message": message, "status": tenant.Status})
}

// HandleAdminTenantRegenerateKey rotates a tenant's API key. The old
// key stops working immediately; the site must re-activate its license.
func HandleAdminTenantRegenerateKey(c *fiber.Ctx) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}

	apiKey, err := tenant.RotateAPIKey()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to generate API key")
	}
	if err := repos().Tenant.Update(tenant); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to update tenant")
	}

	log.Printf("[Admin] Regenerated API key for tenant %s", tenant.TenantKey)
	return respondSuccess(c, fiber.Map{"api_key": apiKey})
}

// HandleAdminTenantDelete deletes a tenant and all of its dependent
// rows (activations, sync state, mirrored content, token logs)
func HandleAdminTenantDelete(c *fiber.Ctx) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}
	if err := repos().Tenant.Delete(tenant.ID); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete tenant")
	}
	return respondSuccess(c, fiber.Map{"message": fmt.Sprintf("Tenant %s deleted", tenant.TenantKey)})
}

func loadTenantParam(c *fiber.Ctx) (*models.Tenant, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = respondError(c, fiber.StatusBadRequest, "Invalid tenant ID")
		return nil, false
	}
	tenant, err := repos().Tenant.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = respondError(c, fiber.StatusNotFound, "Tenant not found")
		} else {
			_ = respondError(c, fiber.StatusInternalServerError, "Failed to load tenant")
		}
		return nil, false
	}
	return tenant, true
}
