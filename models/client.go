package models

import (
	"time"
)

const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Client is a company running expansion projects. Password is a bcrypt hash
// and never leaves the service.
type Client struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CompanyName  string `gorm:"not null" json:"company_name"`
	ContactEmail string `gorm:"uniqueIndex;not null" json:"contact_email"`
	Password     string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'client'" json:"role"`

	Projects []Project `gorm:"foreignKey:ClientID" json:"projects,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
