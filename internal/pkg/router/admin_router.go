package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/wpthub/tenanthub/app/controllers"
	"github.com/wpthub/tenanthub/internal/pkg/env"
)

type AdminRouter struct {
}

// InstallRouter mounts the operator surface under /admin/api behind
// basic auth. Credentials come from the environment; the defaults are
// for local development only.
func (h AdminRouter) InstallRouter(app *fiber.App) {
	admin := app.Group("/admin/api", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("ADMIN_USER", "admin"): env.GetEnv("ADMIN_PASSWORD", "admin"),
		},
	}))

	admin.Get("/stats", controllers.HandleAdminStats)

	admin.Get("/tenants", controllers.HandleAdminTenantList)
	admin.Post("/tenants", controllers.HandleAdminTenantCreate)
	admin.Get("/tenants/:id", controllers.HandleAdminTenantGet)
	admin.Put("/tenants/:id", controllers.HandleAdminTenantUpdate)
	admin.Delete("/tenants/:id", controllers.HandleAdminTenantDelete)
	admin.Post("/tenants/:id/suspend", controllers.HandleAdminTenantSuspend)
	admin.Post("/tenants/:id/activate", controllers.HandleAdminTenantActivate)
	admin.Post("/tenants/:id/regenerate-key", controllers.HandleAdminTenantRegenerateKey)
	admin.Get("/tenants/:id/addons", controllers.HandleAdminTenantAddonList)

	admin.Get("/plans", controllers.HandleAdminPlanList)
	admin.Post("/plans", controllers.HandleAdminPlanCreate)
	admin.Get("/plans/:id", controllers.HandleAdminPlanGet)
	admin.Put("/plans/:id", controllers.HandleAdminPlanUpdate)
	admin.Delete("/plans/:id", controllers.HandleAdminPlanDelete)

	admin.Get("/feature-mappings", controllers.HandleAdminFeatureMappingList)
	admin.Post("/feature-mappings", controllers.HandleAdminFeatureMappingCreate)
	admin.Put("/feature-mappings/:id", controllers.HandleAdminFeatureMappingUpdate)
	admin.Delete("/feature-mappings/:id", controllers.HandleAdminFeatureMappingDelete)

	admin.Get("/addons", controllers.HandleAdminAddonList)
	admin.Post("/addons", controllers.HandleAdminAddonCreate)
	admin.Put("/addons/:id", controllers.HandleAdminAddonUpdate)
	admin.Delete("/addons/:id", controllers.HandleAdminAddonDelete)
	admin.Post("/tenant-addons/activate", controllers.HandleAdminTenantAddonActivate)
	admin.Post("/tenant-addons/deactivate", controllers.HandleAdminTenantAddonDeactivate)

	admin.Get("/modules", controllers.HandleAdminModuleList)
	admin.Post("/modules", controllers.HandleAdminModuleCreate)
	admin.Put("/modules/:id", controllers.HandleAdminModuleUpdate)
	admin.Delete("/modules/:id", controllers.HandleAdminModuleDelete)
	admin.Post("/modules/:id/push", controllers.HandleAdminModulePush)
	admin.Post("/modules/:id/availability", controllers.HandleAdminModuleAvailabilityAdd)
	admin.Delete("/modules/:id/availability", controllers.HandleAdminModuleAvailabilityRemove)
	admin.Post("/module-categories", controllers.HandleAdminModuleCategoryCreate)
	admin.Delete("/module-categories/:id", controllers.HandleAdminModuleCategoryDelete)
	admin.Post("/tenant-modules/activate", controllers.HandleAdminTenantModuleActivate)
	admin.Post("/tenant-modules/deactivate", controllers.HandleAdminTenantModuleDeactivate)

	admin.Get("/content-types", controllers.HandleAdminContentTypeList)
	admin.Post("/content-types", controllers.HandleAdminContentTypeCreate)
	admin.Delete("/content-types/:id", controllers.HandleAdminContentTypeDelete)
	admin.Get("/taxonomies", controllers.HandleAdminTaxonomyList)
	admin.Post("/taxonomies", controllers.HandleAdminTaxonomyCreate)
	admin.Delete("/taxonomies/:id", controllers.HandleAdminTaxonomyDelete)
	admin.Get("/field-groups", controllers.HandleAdminFieldGroupList)
	admin.Post("/field-groups", controllers.HandleAdminFieldGroupCreate)
	admin.Delete("/field-groups/:id", controllers.HandleAdminFieldGroupDelete)

	admin.Get("/sync-config", controllers.HandleAdminSyncConfigGet)
	admin.Put("/sync-config", controllers.HandleAdminSyncConfigSet)
	admin.Post("/sync-config/push-all", controllers.HandleAdminSyncPushAll)
	admin.Get("/tenants/:id/sync-config", controllers.HandleAdminTenantSyncConfigGet)
	admin.Put("/tenants/:id/sync-config", controllers.HandleAdminTenantSyncConfigSet)
	admin.Delete("/tenants/:id/sync-config", controllers.HandleAdminTenantSyncConfigDelete)
	admin.Post("/tenants/:id/sync-config/push", controllers.HandleAdminSyncPushTenant)
	admin.Get("/tenants/:id/push-status", controllers.HandleAdminSyncPushStatus)
	admin.Post("/tenants/:id/push-status/reset", controllers.HandleAdminSyncPushReset)
}

func NewAdminRouter() *AdminRouter {
	return &AdminRouter{}
}
