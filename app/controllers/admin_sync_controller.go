package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/internal/pkg/syncpush"
)

type syncConfigRequest struct {
	PostTypes   []string            `json:"post_types"`
	Taxonomies  []string            `json:"taxonomies"`
	FieldGroups map[string][]string `json:"field_groups"`
}

// HandleAdminSyncConfigGet returns the global sync configuration
func HandleAdminSyncConfigGet(c *fiber.Ctx) error {
	config, err := repos().SyncConfig.GetGlobal()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondSuccess(c, fiber.Map{"config": nil})
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to load sync configuration")
	}
	return respondSuccess(c, fiber.Map{"config": config})
}

// HandleAdminSyncConfigSet replaces the global sync configuration
func HandleAdminSyncConfigSet(c *fiber.Ctx) error {
	var req syncConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	config, err := repos().SyncConfig.GetGlobal()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fiber.StatusInternalServerError, "Failed to load sync configuration")
		}
		config = &models.SyncConfig{}
	}
	if err := config.SetSelection(req.PostTypes, req.Taxonomies, req.FieldGroups); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid selection")
	}
	if err := repos().SyncConfig.Save(config); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to save sync configuration")
	}
	return respondSuccess(c, fiber.Map{"config": config})
}

// HandleAdminTenantSyncConfigGet returns a tenant's sync configuration.
// A tenant without an override sees the global configuration.
func HandleAdminTenantSyncConfigGet(c *fiber.Ctx) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}

	config, err := dispatcher().EffectiveConfig(tenant.ID)
	if err != nil {
		if errors.Is(err, syncpush.ErrNoConfig) {
			return respondSuccess(c, fiber.Map{"config": nil, "source": "none"})
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to load sync configuration")
	}

	source := "tenant"
	if config.IsGlobal() {
		source = "global"
	}
	return respondSuccess(c, fiber.Map{"config": config, "source": source})
}

// HandleAdminTenantSyncConfigSet saves a per-tenant override. It shadows
// the global configuration for this tenant from now on.
func HandleAdminTenantSyncConfigSet(c *fiber.Ctx) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}

	var req syncConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	config, err := repos().SyncConfig.GetByTenantID(tenant.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fiber.StatusInternalServerError, "Failed to load sync configuration")
		}
		config = &models.SyncConfig{TenantID: &tenant.ID}
	}
	if err := config.SetSelection(req.PostTypes, req.Taxonomies, req.FieldGroups); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid selection")
	}
	if err := repos().SyncConfig.Save(config); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to save sync configuration")
	}
	return respondSuccess(c, fiber.Map{"config": config})
}

// HandleAdminTenantSyncConfigDelete drops a tenant's override so the
// global configuration applies again
func HandleAdminTenantSyncConfigDelete(c *fiber.Ctx) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}
	if err := repos().SyncConfig.DeleteByTenantID(tenant.ID); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete sync configuration")
	}
	return respondSuccess(c, fiber.Map{"message": "Tenant override removed"})
}

// HandleAdminSyncPushTenant pushes the effective configuration to one
// tenant's site immediately
func HandleAdminSyncPushTenant(c *fiber.Ctx) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}

	if err := dispatcher().PushConfig(c.Context(), tenant); err != nil {
		switch {
		case errors.Is(err, syncpush.ErrNoConfig):
			return respondError(c, fiber.StatusConflict, "No sync configuration to push")
		case errors.Is(err, syncpush.ErrNoSiteURL):
			return respondError(c, fiber.StatusConflict, "Tenant has no site URL")
		default:
			return respondError(c, fiber.StatusBadGateway, "Push failed: "+err.Error())
		}
	}
	return respondSuccess(c, fiber.Map{"message": "Configuration pushed"})
}

// HandleAdminSyncPushAll pushes the effective configuration to every
// tenant. Partial failure is reported, never rolled back.
func HandleAdminSyncPushAll(c *fiber.Ctx) error {
	tenants, err := repos().Tenant.ListAll()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load tenants")
	}

	result := dispatcher().PushConfigToTenants(c.Context(), tenants)
	return respondSuccess(c, fiber.Map{
		"success_count": len(result.Success),
		"failed_count":  len(result.Failed),
		"total":         result.Total,
		"success":       result.Success,
		"failed":        result.Failed,
	})
}

// HandleAdminSyncPushStatus reports whether and when the first-contact
// push reached a tenant
func HandleAdminSyncPushStatus(c *fiber.Ctx) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}

	record, err := repos().SyncConfig.GetPushRecord(tenant.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondSuccess(c, fiber.Map{"pushed": false})
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to load push record")
	}
	return respondSuccess(c, fiber.Map{"pushed": true, "pushed_at": record.PushedAt})
}

// HandleAdminSyncPushReset clears a tenant's first-contact record so the
// next authenticated request triggers a fresh push
func HandleAdminSyncPushReset(c *fiber.Ctx) error {
	tenant, ok := loadTenantParam(c)
	if !ok {
		return nil
	}
	if err := repos().SyncConfig.DeletePushRecord(tenant.ID); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to reset push record")
	}
	return respondSuccess(c, fiber.Map{"message": "Push record cleared"})
}
