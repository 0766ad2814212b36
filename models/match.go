package models

import (
	"time"
)

// Match links a project to an eligible vendor with a compatibility score.
// The full match set of a project is owned by the match rebuilder: every
// rebuild deletes all rows for the project and inserts a fresh generation.
type Match struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ProjectID string `gorm:"uniqueIndex:idx_project_vendor;not null" json:"project_id"`
	VendorID  string `gorm:"uniqueIndex:idx_project_vendor;not null" json:"vendor_id"`

	Score float64 `gorm:"type:decimal(5,2)" json:"score"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Vendor  *Vendor  `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
