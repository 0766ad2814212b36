package services

import (
	"log"
	"time"

	"vendor-match-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const topVendorsCacheKey = "analytics:top-vendors"

type AnalyticsService struct {
	DB       *gorm.DB
	Research *ResearchService
	Cache    Cache
}

func NewAnalyticsService(db *gorm.DB, research *ResearchService, cache Cache) *AnalyticsService {
	return &AnalyticsService{DB: db, Research: research, Cache: cache}
}

type topVendorEntry struct {
	Vendor        *models.Vendor `json:"vendor"`
	AvgMatchScore float64        `json:"avg_match_score"`
	MatchCount    int64          `json:"match_count"`
}

type countryAnalytics struct {
	Country               string           `json:"country"`
	TopVendors            []topVendorEntry `json:"top_vendors"`
	ResearchDocumentCount int64            `json:"research_document_count"`
}

// GetTopVendorsByCountry reports, per project country, the three vendors with
// the best average match score over the last 30 days plus the number of
// research documents tagged with that country. Expensive, so cached.
func (s *AnalyticsService) GetTopVendorsByCountry(c *fiber.Ctx) error {
	var cached []countryAnalytics
	if hit, err := s.Cache.GetJSON(c.Context(), topVendorsCacheKey, &cached); err == nil && hit {
		return c.JSON(cached)
	} else if err != nil {
		log.Printf("⚠️  Analytics cache read failed: %v", err)
	}

	var countries []string
	if err := s.DB.Model(&models.Project{}).Distinct("country").Pluck("country", &countries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	analytics := make([]countryAnalytics, 0, len(countries))

	for _, country := range countries {
		var stats []struct {
			VendorID   string
			AvgScore   float64
			MatchCount int64
		}
		err := s.DB.Model(&models.Match{}).
			Select("matches.vendor_id AS vendor_id, AVG(matches.score) AS avg_score, COUNT(matches.id) AS match_count").
			Joins("JOIN projects ON projects.id = matches.project_id").
			Where("projects.country = ? AND matches.created_at >= ?", country, thirtyDaysAgo).
			Group("matches.vendor_id").
			Order("avg_score DESC").
			Limit(3).
			Scan(&stats).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
		}

		entries := make([]topVendorEntry, 0, len(stats))
		for _, stat := range stats {
			var vendor models.Vendor
			entry := topVendorEntry{AvgMatchScore: stat.AvgScore, MatchCount: stat.MatchCount}
			if err := s.DB.First(&vendor, "id = ?", stat.VendorID).Error; err == nil {
				entry.Vendor = &vendor
			}
			entries = append(entries, entry)
		}

		docCount, err := s.Research.CountByCountry(country)
		if err != nil {
			log.Printf("Failed to count research documents for %s: %v", country, err)
		}

		analytics = append(analytics, countryAnalytics{
			Country:               country,
			TopVendors:            entries,
			ResearchDocumentCount: docCount,
		})
	}

	if err := s.Cache.SetJSON(c.Context(), topVendorsCacheKey, analytics, 5*time.Minute); err != nil {
		log.Printf("⚠️  Analytics cache write failed: %v", err)
	}
	return c.JSON(analytics)
}

func (s *AnalyticsService) GetMatchingStats(c *fiber.Ctx) error {
	var totalMatches int64
	if err := s.DB.Model(&models.Match{}).Count(&totalMatches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	var avgScore float64
	if err := s.DB.Model(&models.Match{}).Select("COALESCE(AVG(score), 0)").Scan(&avgScore).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	var byCountry []struct {
		Country string `json:"country"`
		Count   int64  `json:"count"`
	}
	if err := s.DB.Model(&models.Match{}).
		Select("projects.country AS country, COUNT(matches.id) AS count").
		Joins("JOIN projects ON projects.id = matches.project_id").
		Group("projects.country").
		Scan(&byCountry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	return c.JSON(fiber.Map{
		"total_matches":      totalMatches,
		"average_score":      avgScore,
		"matches_by_country": byCountry,
	})
}

func (s *AnalyticsService) GetProjectStats(c *fiber.Ctx) error {
	var total, active int64
	if err := s.DB.Model(&models.Project{}).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if err := s.DB.Model(&models.Project{}).Where("status = ?", models.ProjectStatusActive).Count(&active).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	var byCountry []struct {
		Country string `json:"country"`
		Count   int64  `json:"count"`
	}
	if err := s.DB.Model(&models.Project{}).
		Select("country, COUNT(id) AS count").
		Group("country").
		Scan(&byCountry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	var avgBudget float64
	if err := s.DB.Model(&models.Project{}).Select("COALESCE(AVG(budget), 0)").Scan(&avgBudget).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	return c.JSON(fiber.Map{
		"total_projects":      total,
		"active_projects":     active,
		"projects_by_country": byCountry,
		"average_budget":      avgBudget,
	})
}

func (s *AnalyticsService) GetVendorStats(c *fiber.Ctx) error {
	var total, active int64
	if err := s.DB.Model(&models.Vendor{}).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if err := s.DB.Model(&models.Vendor{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	var avgRating, avgSla float64
	if err := s.DB.Model(&models.Vendor{}).Select("COALESCE(AVG(rating), 0)").Scan(&avgRating).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if err := s.DB.Model(&models.Vendor{}).Select("COALESCE(AVG(response_sla_hours), 0)").Scan(&avgSla).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	return c.JSON(fiber.Map{
		"total_vendors":     total,
		"active_vendors":    active,
		"average_rating":    avgRating,
		"average_sla_hours": avgSla,
	})
}
