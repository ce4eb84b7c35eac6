package repository

import (
	"context"
	"time"

	"vecindo/internal/models"
)

// CouponStore is the persistence surface the engine needs (interfaces so the
// engine can be exercised against an in-memory store in tests).
type CouponStore interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	CountUserRedemptions(ctx context.Context, couponID, userID uint) (int64, error)
	// InTx runs fn inside one store transaction and rolls every write back
	// when fn returns an error.
	InTx(ctx context.Context, fn func(tx RedemptionTx) error) error
}

// RedemptionTx is the set of operations available inside one transaction.
// LockCouponByCode must acquire an exclusive row lock (select-for-update)
// held until commit or rollback; it is the single serialization point for
// concurrent redeemers of the same coupon.
type RedemptionTx interface {
	LockCouponByCode(code string) (*models.Coupon, error)
	CountUserRedemptions(couponID, userID uint) (int64, error)
	InsertRedemption(r *models.Redemption) error
	IncrementRedemptions(couponID uint) error
	InsertBenefit(b *models.ActiveBenefit) error
	GetUser(userID uint) (*models.User, error)
	ActivatePremium(userID uint, until time.Time) error
	GetUserBenefit(benefitID, userID uint) (*models.ActiveBenefit, error)
	// DeactivateBenefit flips active to false only when it is still true,
	// returning the number of rows affected.
	DeactivateBenefit(benefitID uint) (int64, error)
	MarkRedemptionConsumed(redemptionID, orderID uint) error
}
