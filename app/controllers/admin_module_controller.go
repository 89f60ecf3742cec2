package controllers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/internal/pkg/modules"
	"github.com/wpthub/tenanthub/internal/pkg/syncpush"
)

type moduleRequest struct {
	Slug             string  `json:"slug"`
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description"`
	CategoryID       *uint   `json:"category_id"`
	LogoURL          string  `json:"logo_url"`
	Price            float64 `json:"price"`
	AvailabilityMode string  `json:"availability_mode"`
	IsActive         *bool   `json:"is_active"`
}

// HandleAdminModuleList returns the full module catalog with categories
func HandleAdminModuleList(c *fiber.Ctx) error {
	list, err := repos().Module.GetAll()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load modules")
	}
	categories, err := repos().Module.GetCategories()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load categories")
	}
	return respondSuccess(c, fiber.Map{"modules": list, "categories": categories})
}

// HandleAdminModuleCreate adds a module to the catalog
func HandleAdminModuleCreate(c *fiber.Ctx) error {
	var req moduleRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	module := &models.Module{
		Slug:             req.Slug,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		CategoryID:       req.CategoryID,
		LogoURL:          req.LogoURL,
		Price:            req.Price,
		AvailabilityMode: req.AvailabilityMode,
		IsActive:         true,
	}
	if module.AvailabilityMode == "" {
		module.AvailabilityMode = models.AvailabilityAllTenants
	}
	if req.IsActive != nil {
		module.IsActive = *req.IsActive
	}

	if err := module.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().Module.Create(module); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to create module")
	}
	return respondSuccess(c, module)
}

// HandleAdminModuleUpdate edits a module and re-pushes its metadata to
// every tenant that can currently see it
func HandleAdminModuleUpdate(c *fiber.Ctx) error {
	module, ok := loadModuleParam(c)
	if !ok {
		return nil
	}

	var req moduleRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Slug != "" {
		module.Slug = req.Slug
	}
	if req.Title != "" {
		module.Title = req.Title
	}
	if req.ShortDescription != "" {
		module.ShortDescription = req.ShortDescription
	}
	if req.Description != "" {
		module.Description = req.Description
	}
	if req.CategoryID != nil {
		module.CategoryID = req.CategoryID
	}
	if req.LogoURL != "" {
		module.LogoURL = req.LogoURL
	}
	if req.Price > 0 {
		module.Price = req.Price
	}
	if req.AvailabilityMode != "" {
		module.AvailabilityMode = req.AvailabilityMode
	}
	if req.IsActive != nil {
		module.IsActive = *req.IsActive
	}

	if err := module.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().Module.Update(module); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to update module")
	}

	result := pushModuleToEligible(c, module)
	return respondSuccess(c, fiber.Map{"module": module, "push": result})
}

// HandleAdminModuleDelete removes a module from the catalog
func HandleAdminModuleDelete(c *fiber.Ctx) error {
	module, ok := loadModuleParam(c)
	if !ok {
		return nil
	}
	if err := repos().Module.Delete(module.ID); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete module")
	}
	return respondSuccess(c, fiber.Map{"message": "Module deleted"})
}

// HandleAdminModulePush re-pushes one module's metadata to all tenants
// that can see it. Per-tenant failures are counted, not fatal.
func HandleAdminModulePush(c *fiber.Ctx) error {
	module, ok := loadModuleParam(c)
	if !ok {
		return nil
	}
	result := pushModuleToEligible(c, module)
	return respondSuccess(c, fiber.Map{
		"success_count": len(result.Success),
		"failed_count":  len(result.Failed),
		"total":         result.Total,
		"success":       result.Success,
		"failed":        result.Failed,
	})
}

type moduleCategoryRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// HandleAdminModuleCategoryCreate adds a catalog category
func HandleAdminModuleCategoryCreate(c *fiber.Ctx) error {
	var req moduleCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	category := &models.ModuleCategory{Slug: req.Slug, Name: req.Name}
	if err := category.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().Module.CreateCategory(category); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to create category")
	}
	return respondSuccess(c, category)
}

// HandleAdminModuleCategoryDelete removes a category unless modules
// are still assigned to it
func HandleAdminModuleCategoryDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid category ID")
	}

	count, err := repos().Module.CountModulesInCategory(id)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to check category usage")
	}
	if count > 0 {
		return respondError(c, fiber.StatusConflict,
			fmt.Sprintf("%d modules are assigned to this category.", count))
	}

	if err := repos().Module.DeleteCategory(id); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete category")
	}
	return respondSuccess(c, fiber.Map{"message": "Category deleted"})
}

type moduleAvailabilityRequest struct {
	TenantID uint `json:"tenant_id"`
}

// HandleAdminModuleAvailabilityAdd grants a tenant visibility of a
// restricted module and re-pushes the module to its full audience
func HandleAdminModuleAvailabilityAdd(c *fiber.Ctx) error {
	module, ok := loadModuleParam(c)
	if !ok {
		return nil
	}

	var req moduleAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	tenant, err := repos().Tenant.GetByID(req.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fiber.StatusNotFound, "Tenant not found")
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to load tenant")
	}

	if err := repos().Module.AddAvailability(module.ID, tenant.ID); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to grant availability")
	}

	result := pushModuleToEligible(c, module)
	return respondSuccess(c, fiber.Map{"message": "Availability granted", "push": result})
}

// HandleAdminModuleAvailabilityRemove revokes a tenant's visibility of
// a restricted module and re-pushes the module to the remaining audience
func HandleAdminModuleAvailabilityRemove(c *fiber.Ctx) error {
	module, ok := loadModuleParam(c)
	if !ok {
		return nil
	}

	var req moduleAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := repos().Module.RemoveAvailability(module.ID, req.TenantID); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to revoke availability")
	}

	result := pushModuleToEligible(c, module)
	return respondSuccess(c, fiber.Map{"message": "Availability revoked", "push": result})
}

type tenantModuleRequest struct {
	TenantID uint `json:"tenant_id"`
	ModuleID uint `json:"module_id"`
}

// HandleAdminTenantModuleActivate activates a module for a tenant on
// their behalf
func HandleAdminTenantModuleActivate(c *fiber.Ctx) error {
	var req tenantModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	tm, err := moduleRegistry().Activate(req.TenantID, req.ModuleID, models.ActorAdmin)
	if err != nil {
		switch {
		case errors.Is(err, modules.ErrNotVisible):
			return respondError(c, fiber.StatusForbidden, "Module is not available for this tenant")
		case errors.Is(err, modules.ErrModuleInactive):
			return respondError(c, fiber.StatusConflict, "Module is not active")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return respondError(c, fiber.StatusNotFound, "Module not found")
		default:
			return respondError(c, fiber.StatusInternalServerError, "Failed to activate module")
		}
	}
	return respondSuccess(c, tm)
}

// HandleAdminTenantModuleDeactivate deactivates a tenant's module
func HandleAdminTenantModuleDeactivate(c *fiber.Ctx) error {
	var req tenantModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	tm, err := moduleRegistry().Deactivate(req.TenantID, req.ModuleID, models.ActorAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fiber.StatusNotFound, "Module activation not found")
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to deactivate module")
	}
	return respondSuccess(c, tm)
}

func pushModuleToEligible(c *fiber.Ctx, module *models.Module) syncpush.BatchResult {
	tenants, err := moduleRegistry().EligibleTenants(module)
	if err != nil {
		log.Printf("[Admin] Could not resolve eligible tenants for module %s: %v", module.Slug, err)
		return syncpush.BatchResult{}
	}
	return dispatcher().PushModuleToTenants(c.Context(), module, tenants)
}

func loadModuleParam(c *fiber.Ctx) (*models.Module, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = respondError(c, fiber.StatusBadRequest, "Invalid module ID")
		return nil, false
	}
	module, err := repos().Module.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = respondError(c, fiber.StatusNotFound, "Module not found")
		} else {
			_ = respondError(c, fiber.StatusInternalServerError, "Failed to load module")
		}
		return nil, false
	}
	return module, true
}
