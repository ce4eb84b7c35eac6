package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BusinessID  uint           `gorm:"not null;index" json:"business_id"`
	Name        string         `gorm:"size:128;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	PriceCents  int64          `gorm:"not null" json:"price_cents"`
	Category    string         `gorm:"size:64" json:"category"`
	ImageURL    string         `gorm:"size:512" json:"image_url"`
	OnOffer     bool           `gorm:"default:false" json:"on_offer"`
	OfferCents  *int64         `json:"offer_cents"`
	Active      bool           `gorm:"default:true;index" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
}

func (Product) TableName() string { return "products" }
