package handlers

import (
	"vendor-match-system/middleware"
	"vendor-match-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupVendorRoutes(api fiber.Router, vendorService *services.VendorService, jwtSecret string) {
	secured := api.Group("/vendors", middleware.UserContextMiddleware(jwtSecret))

	secured.Get("/", vendorService.GetVendors)
	secured.Get("/country/:country", vendorService.GetVendorsByCountry)
	secured.Get("/:id", vendorService.GetVendorByID)

	// 🔒 Vendor mutations are admin-only
	admin := secured.Group("/", middleware.RequireAdmin())
	admin.Post("/", vendorService.CreateVendor)
	admin.Patch("/:id", vendorService.UpdateVendor)
	admin.Delete("/:id", vendorService.DeleteVendor)
}
