package services

import (
	"errors"
	"log"

	"vendor-match-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProjectService struct {
	DB       *gorm.DB
	Matching *MatchingService
	Projects ProjectStore
}

func NewProjectService(db *gorm.DB, matching *MatchingService) *ProjectService {
	return &ProjectService{DB: db, Matching: matching, Projects: NewGormProjectStore(db)}
}

type projectRequest struct {
	Country        string   `json:"country"`
	ServicesNeeded []string `json:"services_needed"`
	Budget         float64  `json:"budget"`
	Status         string   `json:"status"`
}

func validProjectStatus(status string) bool {
	switch status {
	case models.ProjectStatusActive, models.ProjectStatusCompleted,
		models.ProjectStatusOnHold, models.ProjectStatusCancelled:
		return true
	}
	return false
}

// CreateProject creates a project owned by the authenticated client.
func (s *ProjectService) CreateProject(c *fiber.Ctx) error {
	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Country == "" || len(req.ServicesNeeded) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "country and services_needed are required"})
	}
	if req.Budget < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "budget must be non-negative"})
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !validProjectStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	}

	project := models.Project{
		ClientID:       c.Locals("client_id").(string),
		Country:        req.Country,
		ServicesNeeded: req.ServicesNeeded,
		Budget:         req.Budget,
		Status:         status,
	}
	if err := s.DB.Create(&project).Error; err != nil {
		log.Printf("DB Error creating project: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create project"})
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// GetProjects lists the caller's projects; admins see every project.
func (s *ProjectService) GetProjects(c *fiber.Ctx) error {
	query := s.DB.Preload("Client").Preload("Matches").Preload("Matches.Vendor")
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		query = query.Where("client_id = ?", c.Locals("client_id"))
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(projects)
}

func (s *ProjectService) GetProjectByID(c *fiber.Ctx) error {
	project, ok := s.loadOwnedProject(c)
	if !ok {
		return nil
	}
	return c.JSON(project)
}

// UpdateProject applies partial updates. Status changes here are how a
// project leaves or re-enters the scheduled refresh population.
func (s *ProjectService) UpdateProject(c *fiber.Ctx) error {
	project, ok := s.loadOwnedProject(c)
	if !ok {
		return nil
	}

	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if req.Country != "" {
		project.Country = req.Country
	}
	if len(req.ServicesNeeded) > 0 {
		project.ServicesNeeded = req.ServicesNeeded
	}
	if req.Budget > 0 {
		project.Budget = req.Budget
	}
	if req.Status != "" {
		if !validProjectStatus(req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
		}
		project.Status = req.Status
	}

	if err := s.DB.Save(project).Error; err != nil {
		log.Printf("DB Error updating project %s: %v", project.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update project"})
	}
	return c.JSON(project)
}

func (s *ProjectService) DeleteProject(c *fiber.Ctx) error {
	project, ok := s.loadOwnedProject(c)
	if !ok {
		return nil
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Match{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		log.Printf("DB Error deleting project %s: %v", project.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete project"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RebuildProjectMatches is the on-demand rebuild endpoint. It runs the same
// serialized rebuild the scheduler uses.
func (s *ProjectService) RebuildProjectMatches(c *fiber.Ctx) error {
	project, ok := s.loadOwnedProject(c)
	if !ok {
		return nil
	}

	matches, err := s.Matching.RebuildMatches(project.ID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
		}
		log.Printf("Failed to rebuild matches for project %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to rebuild matches"})
	}
	return c.JSON(matches)
}

// GetProjectMatches returns the stored matches, best score first.
func (s *ProjectService) GetProjectMatches(c *fiber.Ctx) error {
	project, ok := s.loadOwnedProject(c)
	if !ok {
		return nil
	}

	matches, err := s.Matching.ProjectMatches(project.ID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(matches)
}

// loadOwnedProject fetches the :id project and enforces ownership (admins
// bypass the check). On failure it writes the error response and returns
// ok=false; callers must return immediately without touching the project.
// The guard must never be signalled through c.JSON's return value — that is
// nil on a successful write, so callers checking it would sail right past a
// 403/404 with a nil project.
func (s *ProjectService) loadOwnedProject(c *fiber.Ctx) (*models.Project, bool) {
	project, err := s.Projects.FindByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
		} else {
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
		}
		return nil, false
	}

	role, _ := c.Locals("role").(string)
	if role != models.RoleAdmin && project.ClientID != c.Locals("client_id") {
		c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you can only access your own projects"})
		return nil, false
	}
	return project, true
}
