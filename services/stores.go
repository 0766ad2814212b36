package services

import (
	"encoding/json"
	"errors"

	"vendor-match-system/models"

	"gorm.io/gorm"
)

// GORM-backed implementations of the store interfaces consumed by the
// matching service and the scheduler.

type GormProjectStore struct {
	DB *gorm.DB
}

func NewGormProjectStore(db *gorm.DB) *GormProjectStore {
	return &GormProjectStore{DB: db}
}

func (s *GormProjectStore) FindByID(id string) (*models.Project, error) {
	var project models.Project
	if err := s.DB.Preload("Client").First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (s *GormProjectStore) FindAllByStatus(status string) ([]models.Project, error) {
	var projects []models.Project
	if err := s.DB.Preload("Client").Where("status = ?", status).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

type GormVendorStore struct {
	DB *gorm.DB
}

func NewGormVendorStore(db *gorm.DB) *GormVendorStore {
	return &GormVendorStore{DB: db}
}

// FindActiveByCountry uses jsonb containment so "USA" only matches an exact
// "USA" element, never a substring of another country name. The result is a
// superset of the eligible vendors; the scoring policy still rejects
// zero-overlap ones.
func (s *GormVendorStore) FindActiveByCountry(country string) ([]models.Vendor, error) {
	needle, err := json.Marshal([]string{country})
	if err != nil {
		return nil, err
	}

	var vendors []models.Vendor
	if err := s.DB.
		Where("is_active = ? AND countries_supported @> ?", true, string(needle)).
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (s *GormVendorStore) FindByMinSlaHours(threshold int) ([]models.Vendor, error) {
	var vendors []models.Vendor
	if err := s.DB.Where("response_sla_hours >= ?", threshold).Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

type GormMatchStore struct {
	DB *gorm.DB
}

func NewGormMatchStore(db *gorm.DB) *GormMatchStore {
	return &GormMatchStore{DB: db}
}

// ReplaceForProject wraps the delete of the old generation and the insert of
// the new one in a single transaction, so readers never observe a half-built
// match set or an empty window between generations.
func (s *GormMatchStore) ReplaceForProject(projectID string, matches []models.Match) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Match{}).Error; err != nil {
			return err
		}
		if len(matches) == 0 {
			return nil
		}
		return tx.Create(&matches).Error
	})
}

func (s *GormMatchStore) FindForProject(projectID string) ([]models.Match, error) {
	var matches []models.Match
	if err := s.DB.Preload("Vendor").
		Where("project_id = ?", projectID).
		Order("score DESC, vendor_id ASC").
		Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}
