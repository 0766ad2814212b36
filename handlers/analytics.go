package handlers

import (
	"vendor-match-system/middleware"
	"vendor-match-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAnalyticsRoutes(api fiber.Router, analyticsService *services.AnalyticsService, jwtSecret string) {
	secured := api.Group("/analytics", middleware.UserContextMiddleware(jwtSecret))

	secured.Get("/top-vendors", analyticsService.GetTopVendorsByCountry)

	// 🔒 Raw stats are admin-only
	admin := secured.Group("/", middleware.RequireAdmin())
	admin.Get("/matching-stats", analyticsService.GetMatchingStats)
	admin.Get("/project-stats", analyticsService.GetProjectStats)
	admin.Get("/vendor-stats", analyticsService.GetVendorStats)
}
