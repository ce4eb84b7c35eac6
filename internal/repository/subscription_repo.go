package repository

import (
	"context"
	"time"

	"vecindo/internal/domain"
	"vecindo/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository implements service.SubscriptionStore.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SubscriptionRepository) ActivatePlan(ctx context.Context, userID uint, start, end time.Time, payment *models.SubscriptionPayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"plan_id":             domain.PlanPremium,
			"subscription_status": domain.SubscriptionActive,
			"subscribed_at":       start,
			"premium_until":       end,
			"payment_method":      domain.PaymentMethodFlow,
		}).Error
		if err != nil {
			return err
		}
		return tx.Create(payment).Error
	})
}

func (r *SubscriptionRepository) SetSubscriptionStatus(ctx context.Context, userID uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("subscription_status", status).Error
}

// ClearExpiredPlan drops the user to the basic plan and deactivates every
// product across the user's businesses, in one transaction.
func (r *SubscriptionRepository) ClearExpiredPlan(ctx context.Context, userID uint) (int64, error) {
	var deactivated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("active = ? AND business_id IN (?)", true,
				tx.Model(&models.Business{}).Select("id").Where("user_id = ?", userID)).
			Update("active", false)
		if res.Error != nil {
			return res.Error
		}
		deactivated = res.RowsAffected
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"plan_id":             nil,
			"subscription_status": nil,
			"subscribed_at":       nil,
			"premium_until":       nil,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return deactivated, nil
}

func (r *SubscriptionRepository) ExpiredPremiumUserIDs(ctx context.Context, now time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("plan_id = ? AND premium_until IS NOT NULL AND premium_until < ?", domain.PlanPremium, now).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *SubscriptionRepository) ListPayments(ctx context.Context, userID uint) ([]models.SubscriptionPayment, error) {
	var list []models.SubscriptionPayment
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("paid_at DESC").Find(&list).Error
	return list, err
}
