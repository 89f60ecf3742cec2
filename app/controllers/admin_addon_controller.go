package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/internal/pkg/addons"
)

type addonRequest struct {
	Slug              string           `json:"slug"`
	Name              string           `json:"name"`
	Price             float64          `json:"price"`
	Description       string           `json:"description"`
	IsActive          *bool            `json:"is_active"`
	RequiredModules   []string         `json:"required_modules"`
	FeatureIncrements map[string]int64 `json:"feature_increments"`
}

// HandleAdminAddonList returns every addon
func HandleAdminAddonList(c *fiber.Ctx) error {
	list, err := repos().Addon.GetAll()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load addons")
	}
	return respondSuccess(c, fiber.Map{"addons": list})
}

// HandleAdminAddonCreate creates an addon with its module dependencies
// and per-unit quota increments
func HandleAdminAddonCreate(c *fiber.Ctx) error {
	var req addonRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	addon := &models.Addon{
		Slug:        req.Slug,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		addon.IsActive = *req.IsActive
	}
	if req.RequiredModules != nil {
		if err := addon.SetRequiredModules(req.RequiredModules); err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid required modules")
		}
	}
	if req.FeatureIncrements != nil {
		if err := addon.SetFeatureIncrements(req.FeatureIncrements); err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid feature increments")
		}
	}
	if err := addon.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().Addon.Create(addon); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to create addon")
	}
	return respondSuccess(c, addon)
}

// HandleAdminAddonUpdate edits an addon. Increment changes take effect
// at the next entitlement lookup for every tenant holding the addon.
func HandleAdminAddonUpdate(c *fiber.Ctx) error {
	addon, ok := loadAddonParam(c)
	if !ok {
		return nil
	}

	var req addonRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Slug != "" {
		addon.Slug = req.Slug
	}
	if req.Name != "" {
		addon.Name = req.Name
	}
	if req.Price > 0 {
		addon.Price = req.Price
	}
	if req.Description != "" {
		addon.Description = req.Description
	}
	if req.IsActive != nil {
		addon.IsActive = *req.IsActive
	}
	if req.RequiredModules != nil {
		if err := addon.SetRequiredModules(req.RequiredModules); err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid required modules")
		}
	}
	if req.FeatureIncrements != nil {
		if err := addon.SetFeatureIncrements(req.FeatureIncrements); err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid feature increments")
		}
	}

	if err := addon.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().Addon.Update(addon); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to update addon")
	}
	return respondSuccess(c, addon)
}

// HandleAdminAddonDelete removes an addon unless tenants hold it active
func HandleAdminAddonDelete(c *fiber.Ctx) error {
	addon, ok := loadAddonParam(c)
	if !ok {
		return nil
	}

	count, err := repos().Addon.CountActiveTenantAddons(addon.ID)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to check addon usage")
	}
	if count > 0 {
		return respondError(c, fiber.StatusConflict,
			fmt.Sprintf("%d tenants have this addon active.", count))
	}

	if err := repos().Addon.Delete(addon.ID); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete addon")
	}
	return respondSuccess(c, fiber.Map{"message": "Addon deleted"})
}

type tenantAddonRequest struct {
	TenantID uint `json:"tenant_id"`
	AddonID  uint `json:"addon_id"`
	Quantity int  `json:"quantity"`
}

// HandleAdminTenantAddonActivate activates an addon for a tenant after
// the module dependency check. Re-activating an existing grant updates
// its quantity instead of creating a second row.
func HandleAdminTenantAddonActivate(c *fiber.Ctx) error {
	var req tenantAddonRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	ta, err := addonService().Activate(req.TenantID, req.AddonID, req.Quantity)
	if err != nil {
		var depErr *addons.DependencyError
		switch {
		case errors.As(err, &depErr):
			return respondError(c, fiber.StatusUnprocessableEntity, depErr.Error())
		case errors.Is(err, addons.ErrAddonInactive):
			return respondError(c, fiber.StatusConflict, "Addon is not active")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return respondError(c, fiber.StatusNotFound, "Addon not found")
		default:
			return respondError(c, fiber.StatusInternalServerError, "Failed to activate addon")
		}
	}
	return respondSuccess(c, ta)
}

// HandleAdminTenantAddonDeactivate suspends a tenant's addon grant.
// The row is kept so quantity survives a later re-activation.
func HandleAdminTenantAddonDeactivate(c *fiber.Ctx) error {
	var req tenantAddonRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	ta, err := addonService().Deactivate(req.TenantID, req.AddonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fiber.StatusNotFound, "Addon grant not found")
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to deactivate addon")
	}
	return respondSuccess(c, ta)
}

// HandleAdminTenantAddonList lists a tenant's active addon grants
func HandleAdminTenantAddonList(c *fiber.Ctx) error {
	tenantID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid tenant ID")
	}
	grants, err := repos().Addon.ListActiveByTenant(tenantID)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load addon grants")
	}
	return respondSuccess(c, fiber.Map{"addons": grants})
}

func loadAddonParam(c *fiber.Ctx) (*models.Addon, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = respondError(c, fiber.StatusBadRequest, "Invalid addon ID")
		return nil, false
	}
	addon, err := repos().Addon.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = respondError(c, fiber.StatusNotFound, "Addon not found")
		} else {
			_ = respondError(c, fiber.StatusInternalServerError, "Failed to load addon")
		}
		return nil, false
	}
	return addon, true
}
