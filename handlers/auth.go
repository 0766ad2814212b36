package handlers

import (
	"vendor-match-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(api fiber.Router, authService *services.AuthService) {
	auth := api.Group("/auth")
	auth.Post("/register", authService.Register)
	auth.Post("/login", authService.Login)
}
