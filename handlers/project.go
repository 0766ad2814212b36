package handlers

import (
	"vendor-match-system/middleware"
	"vendor-match-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProjectRoutes(api fiber.Router, projectService *services.ProjectService, jwtSecret string) {
	secured := api.Group("/projects", middleware.UserContextMiddleware(jwtSecret))

	secured.Post("/", projectService.CreateProject)
	secured.Get("/", projectService.GetProjects)
	secured.Get("/:id", projectService.GetProjectByID)
	secured.Patch("/:id", projectService.UpdateProject)
	secured.Delete("/:id", projectService.DeleteProject)

	// Matching endpoints backed by the core rebuilder
	secured.Post("/:id/matches/rebuild", projectService.RebuildProjectMatches)
	secured.Get("/:id/matches", projectService.GetProjectMatches)
}
