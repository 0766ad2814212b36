package services

import (
	"errors"
	"log"

	"vendor-match-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VendorService struct {
	DB *gorm.DB
}

func NewVendorService(db *gorm.DB) *VendorService {
	return &VendorService{DB: db}
}

type vendorRequest struct {
	Name               string   `json:"name"`
	CountriesSupported []string `json:"countries_supported"`
	ServicesOffered    []string `json:"services_offered"`
	Rating             *float64 `json:"rating"`
	ResponseSlaHours   *int     `json:"response_sla_hours"`
	IsActive           *bool    `json:"is_active"`
}

// CreateVendor registers a vendor with the original defaults: rating 0,
// 24h SLA, active.
func (s *VendorService) CreateVendor(c *fiber.Ctx) error {
	var req vendorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Name == "" || len(req.CountriesSupported) == 0 || len(req.ServicesOffered) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name, countries_supported and services_offered are required",
		})
	}

	vendor := models.Vendor{
		Name:               req.Name,
		CountriesSupported: req.CountriesSupported,
		ServicesOffered:    req.ServicesOffered,
		ResponseSlaHours:   24,
		IsActive:           true,
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 5 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rating must be between 0 and 5"})
		}
		vendor.Rating = *req.Rating
	}
	if req.ResponseSlaHours != nil {
		if *req.ResponseSlaHours <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "response_sla_hours must be positive"})
		}
		vendor.ResponseSlaHours = *req.ResponseSlaHours
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}

	if err := s.DB.Create(&vendor).Error; err != nil {
		log.Printf("DB Error creating vendor: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create vendor"})
	}
	return c.Status(fiber.StatusCreated).JSON(vendor)
}

func (s *VendorService) GetVendors(c *fiber.Ctx) error {
	var vendors []models.Vendor
	if err := s.DB.Order("created_at DESC").Find(&vendors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(vendors)
}

func (s *VendorService) GetVendorByID(c *fiber.Ctx) error {
	var vendor models.Vendor
	if err := s.DB.Preload("Matches").First(&vendor, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "vendor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(vendor)
}

func (s *VendorService) UpdateVendor(c *fiber.Ctx) error {
	var vendor models.Vendor
	if err := s.DB.First(&vendor, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "vendor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	var req vendorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if req.Name != "" {
		vendor.Name = req.Name
	}
	if len(req.CountriesSupported) > 0 {
		vendor.CountriesSupported = req.CountriesSupported
	}
	if len(req.ServicesOffered) > 0 {
		vendor.ServicesOffered = req.ServicesOffered
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 5 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rating must be between 0 and 5"})
		}
		vendor.Rating = *req.Rating
	}
	if req.ResponseSlaHours != nil {
		if *req.ResponseSlaHours <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "response_sla_hours must be positive"})
		}
		vendor.ResponseSlaHours = *req.ResponseSlaHours
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}

	if err := s.DB.Save(&vendor).Error; err != nil {
		log.Printf("DB Error updating vendor %s: %v", vendor.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update vendor"})
	}
	return c.JSON(vendor)
}

func (s *VendorService) DeleteVendor(c *fiber.Ctx) error {
	vendorID := c.Params("id")

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vendor_id = ?", vendorID).Delete(&models.Match{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Vendor{}, "id = ?", vendorID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "vendor not found"})
		}
		log.Printf("DB Error deleting vendor %s: %v", vendorID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete vendor"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetVendorsByCountry lists active vendors covering the country, exact
// membership only.
func (s *VendorService) GetVendorsByCountry(c *fiber.Ctx) error {
	store := GormVendorStore{DB: s.DB}
	vendors, err := store.FindActiveByCountry(c.Params("country"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(vendors)
}
