package models

import (
	"time"

	"gorm.io/gorm"
)

// Business is a merchant's storefront ("emprendimiento").
type Business struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"size:128;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:64;index" json:"category"`
	Phone       string         `gorm:"size:32" json:"phone"`
	Address     string         `gorm:"size:255" json:"address"`
	CommuneID   *uint          `json:"commune_id"`
	LogoURL     string         `gorm:"size:512" json:"logo_url"`
	Active      bool           `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Products []Product `gorm:"foreignKey:BusinessID" json:"products,omitempty"`
}

func (Business) TableName() string { return "businesses" }
