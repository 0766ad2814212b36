package models

import (
	"time"
)

const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCancelled = "cancelled"
)

// Project is a client's expansion project into a single country. Only
// projects with status "active" are picked up by the daily match refresh.
type Project struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ClientID string `gorm:"index;not null" json:"client_id"`

	// Country is matched exactly (case-sensitive) against vendor coverage.
	Country        string   `gorm:"not null" json:"country"`
	ServicesNeeded []string `gorm:"type:jsonb;serializer:json" json:"services_needed"`
	Budget         float64  `gorm:"type:decimal(12,2);check:budget >= 0" json:"budget"`
	Status         string   `gorm:"default:'active';check:status IN ('active','completed','on_hold','cancelled')" json:"status"`

	Client  *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Matches []Match `gorm:"foreignKey:ProjectID" json:"matches,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
