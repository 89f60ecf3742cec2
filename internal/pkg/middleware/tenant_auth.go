package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/tenantcontext"
)

const (
	HeaderAPIKey    = "X-WPT-API-Key"
	HeaderTenantKey = "X-WPT-Tenant-Key"
)

// unauthorizedBody is the single response shape for every credential
// failure. "Key not found" and "key found but tenant inactive" are
// indistinguishable to the caller so tenant status cannot be probed.
func unauthorizedBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Invalid API credentials",
	})
}

func resolveTenant(c *fiber.Ctx) *models.Tenant {
	apiKey := strings.TrimSpace(c.Get(HeaderAPIKey))
	if apiKey == "" {
		return nil
	}

	repo := repository.GetGlobalFactory().GetTenantRepository()
	tenant, err := repo.GetByAPIKey(apiKey)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("tenant api key lookup failed: %v", err)
		}
		return nil
	}

	if !tenant.IsActive() {
		return nil
	}

	return tenant
}

// TenantAuthMiddleware authenticates requests carrying a tenant API key header.
// On success the resolved tenant is attached to the request context;
// handlers never re-resolve the tenant from raw input.
func TenantAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := resolveTenant(c)
		if tenant == nil {
			return unauthorizedBody(c)
		}

		tenantcontext.Set(c, tenant)

		return c.Next()
	}
}

// TenantPairAuthMiddleware additionally requires the tenant key header to
// match the tenant resolved from the API key. Used by the token-usage
// namespace.
func TenantPairAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantKey := strings.TrimSpace(c.Get(HeaderTenantKey))
		if tenantKey == "" {
			return unauthorizedBody(c)
		}

		tenant := resolveTenant(c)
		if tenant == nil || tenant.TenantKey != tenantKey {
			return unauthorizedBody(c)
		}

		tenantcontext.Set(c, tenant)

		return c.Next()
	}
}
