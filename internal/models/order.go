package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	BusinessID    uint           `gorm:"not null;index" json:"business_id"`
	ProductID     uint           `gorm:"not null" json:"product_id"`
	Quantity      int            `gorm:"not null;default:1" json:"quantity"`
	TotalCents    int64          `gorm:"not null" json:"total_cents"`
	DiscountCents int64          `gorm:"not null;default:0" json:"discount_cents"`
	Status        string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Notes         string         `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
	Product  Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Order) TableName() string { return "orders" }
