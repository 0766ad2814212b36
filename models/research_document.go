package models

import (
	"time"
)

// ResearchDocument is a free-text market research note attached to a project.
// Optional file attachments live in object storage; only the URL is kept here.
type ResearchDocument struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ProjectID string `gorm:"index;not null" json:"project_id"`

	Title   string   `gorm:"not null" json:"title"`
	Content string   `gorm:"type:text;not null" json:"content"`
	Tags    []string `gorm:"type:jsonb;serializer:json" json:"tags"`

	FileURL  string `json:"file_url,omitempty"`
	FileKey  string `json:"-"`
	FileType string `json:"file_type,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`

	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
