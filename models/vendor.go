package models

import (
	"time"
)

// Vendor is a service provider that can be matched against projects.
// Countries and services are stored as jsonb arrays and membership is always
// an exact element comparison, never a substring match.
type Vendor struct {
	ID   string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name string `gorm:"not null" json:"name"`

	CountriesSupported []string `gorm:"type:jsonb;serializer:json" json:"countries_supported"`
	ServicesOffered    []string `gorm:"type:jsonb;serializer:json" json:"services_offered"`

	Rating           float64 `gorm:"type:decimal(3,2);default:0;check:rating >= 0 AND rating <= 5" json:"rating"`
	ResponseSlaHours int     `gorm:"default:24;check:response_sla_hours > 0" json:"response_sla_hours"`
	IsActive         bool    `gorm:"default:true" json:"is_active"`

	Matches []Match `gorm:"foreignKey:VendorID" json:"matches,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
