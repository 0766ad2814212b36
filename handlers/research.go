package handlers

import (
	"vendor-match-system/middleware"
	"vendor-match-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupResearchRoutes(api fiber.Router, researchService *services.ResearchService, jwtSecret string) {
	secured := api.Group("/research", middleware.UserContextMiddleware(jwtSecret))

	secured.Post("/", researchService.CreateDocument)
	secured.Get("/", researchService.GetDocuments)
	secured.Get("/search", researchService.SearchDocuments)
	secured.Get("/project/:projectId", researchService.GetDocumentsByProject)
	secured.Get("/:id", researchService.GetDocumentByID)
	secured.Delete("/:id", researchService.DeleteDocument)
}
