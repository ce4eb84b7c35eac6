package repository

import (
	"context"
	"time"

	"vecindo/internal/domain"
	"vecindo/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CouponRepository implements service.CouponStore on top of Postgres. The
// redemption transaction relies on SELECT ... FOR UPDATE, so correctness
// holds across processes, not just within one.
type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := r.db.WithContext(ctx).Where("UPPER(code) = UPPER(?)", code).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepository) CountUserRedemptions(ctx context.Context, couponID, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Redemption{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).Count(&n).Error
	return n, err
}

// InTx runs fn inside a database transaction; gorm rolls back when fn
// returns an error.
func (r *CouponRepository) InTx(ctx context.Context, fn func(tx RedemptionTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&redemptionTx{tx: tx})
	})
}

type redemptionTx struct {
	tx *gorm.DB
}

func (t *redemptionTx) LockCouponByCode(code string) (*models.Coupon, error) {
	var c models.Coupon
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("UPPER(code) = UPPER(?)", code).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *redemptionTx) CountUserRedemptions(couponID, userID uint) (int64, error) {
	var n int64
	err := t.tx.Model(&models.Redemption{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).Count(&n).Error
	return n, err
}

func (t *redemptionTx) InsertRedemption(r *models.Redemption) error {
	return t.tx.Create(r).Error
}

func (t *redemptionTx) IncrementRedemptions(couponID uint) error {
	return t.tx.Model(&models.Coupon{}).Where("id = ?", couponID).
		UpdateColumn("redemptions_so_far", gorm.Expr("redemptions_so_far + 1")).Error
}

func (t *redemptionTx) InsertBenefit(b *models.ActiveBenefit) error {
	return t.tx.Create(b).Error
}

func (t *redemptionTx) GetUser(userID uint) (*models.User, error) {
	var u models.User
	if err := t.tx.First(&u, userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (t *redemptionTx) ActivatePremium(userID uint, until time.Time) error {
	return t.tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"plan_id":             domain.PlanPremium,
		"subscription_status": domain.SubscriptionActive,
		"premium_until":       until,
		"subscribed_at":       gorm.Expr("COALESCE(subscribed_at, NOW())"),
		"payment_method":      gorm.Expr("COALESCE(payment_method, ?)", domain.PaymentMethodCoupon),
	}).Error
}

func (t *redemptionTx) GetUserBenefit(benefitID, userID uint) (*models.ActiveBenefit, error) {
	var b models.ActiveBenefit
	err := t.tx.Where("id = ? AND user_id = ?", benefitID, userID).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *redemptionTx) DeactivateBenefit(benefitID uint) (int64, error) {
	res := t.tx.Model(&models.ActiveBenefit{}).
		Where("id = ? AND active = ?", benefitID, true).
		Update("active", false)
	return res.RowsAffected, res.Error
}

func (t *redemptionTx) MarkRedemptionConsumed(redemptionID, orderID uint) error {
	return t.tx.Model(&models.Redemption{}).Where("id = ?", redemptionID).
		Updates(map[string]interface{}{
			"status":          domain.RedemptionConsumed,
			"linked_order_id": orderID,
		}).Error
}

// Listing and administrative queries outside the engine's hot path.

func (r *CouponRepository) ListUserRedemptions(userID uint) ([]models.Redemption, error) {
	var list []models.Redemption
	err := r.db.Preload("Coupon").Preload("Coupon.Business").Preload("Coupon.Product").
		Where("user_id = ?", userID).Order("redeemed_at DESC").Find(&list).Error
	return list, err
}

func (r *CouponRepository) ListActiveBenefits(userID uint, now time.Time) ([]models.ActiveBenefit, error) {
	var list []models.ActiveBenefit
	err := r.db.Where("user_id = ? AND active = ? AND (expires_at IS NULL OR expires_at > ?)", userID, true, now).
		Order("expires_at ASC NULLS LAST").Find(&list).Error
	return list, err
}

// GetActiveUserBenefit loads a benefit only when it is still active, owned
// by the user and not past its expiry.
func (r *CouponRepository) GetActiveUserBenefit(benefitID, userID uint, now time.Time) (*models.ActiveBenefit, error) {
	var b models.ActiveBenefit
	err := r.db.Where("id = ? AND user_id = ? AND active = ? AND (expires_at IS NULL OR expires_at > ?)",
		benefitID, userID, true, now).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *CouponRepository) ListAll() ([]models.Coupon, error) {
	var list []models.Coupon
	err := r.db.Preload("Business").Preload("Product").
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *CouponRepository) Create(c *models.Coupon) error {
	return r.db.Create(c).Error
}

// AdminUpdate applies the only fields an administrator may edit after
// creation. Nil fields are left unchanged.
func (r *CouponRepository) AdminUpdate(id uint, active *bool, maxRedemptions *int, validUntil *time.Time) error {
	updates := map[string]interface{}{}
	if active != nil {
		updates["active"] = *active
	}
	if maxRedemptions != nil {
		updates["max_redemptions"] = *maxRedemptions
	}
	if validUntil != nil {
		updates["valid_until"] = *validUntil
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Coupon{}).Where("id = ?", id).Updates(updates).Error
}

func (r *CouponRepository) Delete(id uint) error {
	return r.db.Delete(&models.Coupon{}, id).Error
}
