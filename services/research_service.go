package services

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"vendor-match-system/models"
	"vendor-match-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// AttachmentStorage is the slice of object storage the research service
// needs. Implemented by utils.ObjectStorage.
type AttachmentStorage interface {
	Upload(fileHeader *multipart.FileHeader, key string) (string, error)
	Delete(key string) error
}

// ResearchService manages free-text market research documents attached to
// projects. Document metadata, tags and content live in Postgres; optional
// file attachments go to object storage.
type ResearchService struct {
	DB      *gorm.DB
	Storage AttachmentStorage
}

func NewResearchService(db *gorm.DB, storage *utils.ObjectStorage) *ResearchService {
	s := &ResearchService{DB: db}
	// Assign only a non-nil pointer, or the nil check on the interface
	// would pass and the first Upload would panic.
	if storage != nil {
		s.Storage = storage
	}
	return s
}

// CreateDocument accepts multipart form data: title, content, project_id,
// comma-separated tags and an optional file attachment.
func (s *ResearchService) CreateDocument(c *fiber.Ctx) error {
	title := c.FormValue("title")
	content := c.FormValue("content")
	projectID := c.FormValue("project_id")
	if title == "" || content == "" || projectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title, content and project_id are required"})
	}

	var count int64
	if err := s.DB.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if count == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}

	var tags []string
	for _, t := range strings.Split(c.FormValue("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	doc := models.ResearchDocument{
		ProjectID: projectID,
		Title:     title,
		Content:   content,
		Tags:      tags,
	}

	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader.Size > 0 {
		if s.Storage == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file attachments are not configured"})
		}
		key := "research/" + slug.Make(title) + "-" + uuid.NewString() + filepath.Ext(fileHeader.Filename)
		fileURL, err := s.Storage.Upload(fileHeader, key)
		if err != nil {
			log.Printf("Failed to upload research attachment: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload attachment"})
		}
		doc.FileURL = fileURL
		doc.FileKey = key
		doc.FileType = fileHeader.Header.Get("Content-Type")
		doc.FileSize = fileHeader.Size
	}

	if err := s.DB.Create(&doc).Error; err != nil {
		log.Printf("DB Error creating research document: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create document"})
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (s *ResearchService) GetDocuments(c *fiber.Ctx) error {
	var docs []models.ResearchDocument
	if err := s.DB.Order("uploaded_at DESC").Find(&docs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(docs)
}

// SearchDocuments filters by project id, tag membership and free-text query
// over title/content. Tag membership is exact (jsonb containment); only the
// free-text part uses pattern matching, which is what it is for.
func (s *ResearchService) SearchDocuments(c *fiber.Ctx) error {
	query := s.DB.Model(&models.ResearchDocument{})

	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	if tagsParam := c.Query("tags"); tagsParam != "" {
		var or []string
		var args []any
		for _, t := range strings.Split(tagsParam, ",") {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			needle, err := json.Marshal([]string{t})
			if err != nil {
				continue
			}
			or = append(or, "tags @> ?")
			args = append(args, string(needle))
		}
		if len(or) > 0 {
			query = query.Where(strings.Join(or, " OR "), args...)
		}
	}

	if text := c.Query("text"); text != "" {
		pattern := "%" + text + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	skip, err := strconv.Atoi(c.Query("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}

	var docs []models.ResearchDocument
	if err := query.Order("uploaded_at DESC").Limit(limit).Offset(skip).Find(&docs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}
	return c.JSON(docs)
}

func (s *ResearchService) GetDocumentsByProject(c *fiber.Ctx) error {
	var docs []models.ResearchDocument
	if err := s.DB.Where("project_id = ?", c.Params("projectId")).
		Order("uploaded_at DESC").Find(&docs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(docs)
}

func (s *ResearchService) GetDocumentByID(c *fiber.Ctx) error {
	var doc models.ResearchDocument
	if err := s.DB.First(&doc, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(doc)
}

// DeleteDocument removes the row and then the stored attachment, so a
// deleted document leaves no orphaned object behind.
func (s *ResearchService) DeleteDocument(c *fiber.Ctx) error {
	var doc models.ResearchDocument
	if err := s.DB.First(&doc, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	if err := s.DB.Delete(&doc).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete document"})
	}

	s.removeAttachment(&doc)
	return c.SendStatus(fiber.StatusNoContent)
}

// removeAttachment best-effort deletes the object behind a document. The row
// is already gone; a failed delete only leaves an orphan in the bucket, so it
// is logged and never surfaced.
func (s *ResearchService) removeAttachment(doc *models.ResearchDocument) {
	if doc.FileKey == "" || s.Storage == nil {
		return
	}
	if err := s.Storage.Delete(doc.FileKey); err != nil {
		log.Printf("Failed to delete research attachment %s: %v", doc.FileKey, err)
	}
}

// CountByCountry counts documents tagged with the country name, either as-is
// or lowercased. Feeds the per-country analytics.
func (s *ResearchService) CountByCountry(country string) (int64, error) {
	asIs, err := json.Marshal([]string{country})
	if err != nil {
		return 0, err
	}
	lowered, err := json.Marshal([]string{strings.ToLower(country)})
	if err != nil {
		return 0, err
	}

	var count int64
	err = s.DB.Model(&models.ResearchDocument{}).
		Where("tags @> ? OR tags @> ?", string(asIs), string(lowered)).
		Count(&count).Error
	return count, err
}
