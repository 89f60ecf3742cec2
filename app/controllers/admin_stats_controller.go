package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wpthub/tenanthub/internal/pkg/statistics"
)

// HandleAdminStats returns cached platform rollups
func HandleAdminStats(c *fiber.Ctx) error {
	data := statistics.GetStatistics()
	return respondSuccess(c, fiber.Map{
		"total_tenants":   data.TotalTenants,
		"mirrored_posts":  data.MirroredPosts,
		"ai_tokens_today": data.AITokensToday,
	})
}
