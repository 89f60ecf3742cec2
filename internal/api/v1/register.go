package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wpthub/tenanthub/internal/pkg/middleware"
)

// RegisterHandlers mounts the tenant-facing v1 routes. Everything except
// license activation sits behind API key authentication; the AI token
// routes additionally verify the tenant key header.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Post("/license/activate", s.PostLicenseActivate)

	auth := middleware.TenantAuthMiddleware()
	router.Get("/ping", auth, s.GetPing)
	router.Get("/tenant/info", auth, s.GetTenantInfo)
	router.Get("/tenant/quota", auth, s.GetTenantQuota)
	router.Get("/modules", auth, s.GetModules)
	router.Post("/modules/activate", auth, s.PostModulesActivate)
	router.Get("/updates/check", auth, s.GetUpdatesCheck)
	router.Post("/sync/user", auth, s.PostSyncUser)
	router.Post("/sync/post", auth, s.PostSyncPost)
	router.Post("/sync/post/delete", auth, s.PostSyncPostDelete)
	router.Post("/analytics/report", auth, s.PostAnalyticsReport)

	pairAuth := middleware.TenantPairAuthMiddleware()
	tokens := router.Group("/ai-tokens", pairAuth)
	tokens.Post("/log", s.PostAITokensLog)
	tokens.Get("/usage", s.GetAITokensUsage)
}
