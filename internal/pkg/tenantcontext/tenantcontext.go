package tenantcontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wpthub/tenanthub/app/models"
)

const (
	KeyTenantContext = "TENANT_CONTEXT"
	KeyTenantID      = "TENANT_ID"
)

// TenantContext is the authenticated tenant attached to a request by the
// API key middleware. Handlers read the tenant from here and never
// re-resolve it from raw headers.
type TenantContext struct {
	TenantID  uint           `json:"tenant_id"`
	TenantKey string         `json:"tenant_key"`
	Status    string         `json:"status"`
	PlanID    *uint          `json:"plan_id"`
	Tenant    *models.Tenant `json:"-"`
}

// Set stores the resolved tenant on the fiber context
func Set(c *fiber.Ctx, tenant *models.Tenant) {
	c.Locals(KeyTenantContext, TenantContext{
		TenantID:  tenant.ID,
		TenantKey: tenant.TenantKey,
		Status:    tenant.Status,
		PlanID:    tenant.PlanID,
		Tenant:    tenant,
	})
	c.Locals(KeyTenantID, tenant.ID)
}

// Get retrieves the tenant context from the fiber context.
// Returns a zero context if none is set.
func Get(c *fiber.Ctx) TenantContext {
	if ctx := c.Locals(KeyTenantContext); ctx != nil {
		return ctx.(TenantContext)
	}
	return TenantContext{}
}

// Tenant returns the authenticated tenant record, or nil outside
// protected routes
func Tenant(c *fiber.Ctx) *models.Tenant {
	return Get(c).Tenant
}

// TenantID returns the authenticated tenant's ID, or 0
func TenantID(c *fiber.Ctx) uint {
	return Get(c).TenantID
}
