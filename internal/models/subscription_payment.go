package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionPayment is the audit row written when a premium subscription
// is purchased or renewed.
type SubscriptionPayment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	PlanID      int            `gorm:"not null" json:"plan_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	PaidAt      time.Time      `gorm:"not null" json:"paid_at"`
	PeriodStart time.Time      `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time      `gorm:"not null" json:"period_end"`
	Status      string         `gorm:"size:20;not null" json:"status"` // paid
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (SubscriptionPayment) TableName() string { return "subscription_payments" }
