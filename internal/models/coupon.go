package models

import (
	"time"

	"vecindo/internal/domain"

	"gorm.io/gorm"
)

// Coupon is a redeemable code with usage and time constraints. Immutable
// after creation except for Active, MaxRedemptions and ValidUntil
// (administrative edits).
type Coupon struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Code         string  `gorm:"uniqueIndex;size:40;not null" json:"code"` // stored uppercase, matched case-insensitively
	Description  string  `gorm:"size:255;not null" json:"description"`
	BenefitKind  string  `gorm:"size:32;not null" json:"benefit_kind"`            // percentage_discount | fixed_discount | free_shipping | free_premium_days
	BenefitValue float64 `gorm:"not null" json:"benefit_value"`                   // percent, currency amount or day count, depending on kind
	Audience     string  `gorm:"size:20;not null;default:'both'" json:"audience"` // customers | merchants | both

	// Optional scoping to one business or product.
	BusinessID *uint `json:"business_id"`
	ProductID  *uint `json:"product_id"`

	MaxRedemptions        *int `json:"max_redemptions"` // nil = unlimited
	RedemptionsSoFar      int  `gorm:"not null;default:0" json:"redemptions_so_far"`
	MaxRedemptionsPerUser int  `gorm:"not null;default:1" json:"max_redemptions_per_user"`

	ValidFrom  *time.Time `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`
	Active     bool       `gorm:"default:true" json:"active"`

	CreatedBy *uint          `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Coupon) TableName() string { return "coupons" }

func (c *Coupon) IsDiscount() bool {
	return c.BenefitKind != domain.BenefitFreePremiumDays
}

// RemainingGlobal returns the global uses left, or nil when unlimited.
func (c *Coupon) RemainingGlobal() *int {
	if c.MaxRedemptions == nil {
		return nil
	}
	left := *c.MaxRedemptions - c.RedemptionsSoFar
	if left < 0 {
		left = 0
	}
	return &left
}

// Redemption records one successful use of a coupon by one user. Never
// deleted; Status flips active -> consumed when the benefit is applied to
// an order.
type Redemption struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	CouponID         uint       `gorm:"not null;index:idx_redemptions_coupon_user" json:"coupon_id"`
	UserID           uint       `gorm:"not null;index:idx_redemptions_coupon_user" json:"user_id"`
	RedeemedAt       time.Time  `gorm:"not null" json:"redeemed_at"`
	BenefitExpiresAt *time.Time `json:"benefit_expires_at"`
	Status           string     `gorm:"size:20;not null;default:'active'" json:"status"` // active | consumed
	LinkedOrderID    *uint      `json:"linked_order_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Coupon Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

func (Redemption) TableName() string { return "redemptions" }

// ActiveBenefit is the materialized, consumable effect of a redemption.
// Deactivated exactly once when applied to an order.
type ActiveBenefit struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	RedemptionID uint       `gorm:"not null;index" json:"redemption_id"`
	BenefitKind  string     `gorm:"size:32;not null" json:"benefit_kind"`
	Description  string     `gorm:"size:255" json:"description"`
	Value        float64    `gorm:"not null" json:"value"`
	ExpiresAt    *time.Time `json:"expires_at"`
	Active       bool       `gorm:"default:true;index" json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Redemption Redemption `gorm:"foreignKey:RedemptionID" json:"-"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
}

func (ActiveBenefit) TableName() string { return "active_benefits" }
