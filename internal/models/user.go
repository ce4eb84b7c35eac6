package models

import (
	"time"

	"vecindo/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:128;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone        string `gorm:"size:32" json:"phone"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:20;not null;index" json:"role"` // customer | merchant | admin
	CommuneID    *uint  `json:"commune_id"`
	AvatarURL    string `gorm:"size:512" json:"avatar_url"`

	// Subscription fields. A nil PlanID means the basic plan; PlanID = 2 is
	// premium and must carry a non-nil PremiumUntil.
	PlanID             *int       `json:"plan_id"`
	SubscriptionStatus *string    `gorm:"size:20" json:"subscription_status"` // active | cancelled
	SubscribedAt       *time.Time `json:"subscribed_at"`
	PremiumUntil       *time.Time `json:"premium_until"`
	PaymentMethod      *string    `gorm:"size:32" json:"payment_method"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Businesses []Business `gorm:"foreignKey:UserID" json:"businesses,omitempty"`
}

// HasActivePremium reports whether premium access is live at t. The stored
// PlanID may lag behind expiry until a reconciliation pass runs, so the
// expiry timestamp is the authority.
func (u *User) HasActivePremium(t time.Time) bool {
	return u.PlanID != nil && *u.PlanID == domain.PlanPremium &&
		u.PremiumUntil != nil && u.PremiumUntil.After(t)
}
