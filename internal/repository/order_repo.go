package repository

import (
	"vecindo/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.Preload("Product").First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(userID uint) ([]models.Order, error) {
	var list []models.Order
	err := r.db.Preload("Product").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

// ListByMerchant returns orders received across every business the merchant
// owns.
func (r *OrderRepository) ListByMerchant(merchantUserID uint) ([]models.Order, error) {
	var list []models.Order
	err := r.db.Preload("Product").
		Where("business_id IN (?)",
			r.db.Model(&models.Business{}).Select("id").Where("user_id = ?", merchantUserID)).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *OrderRepository) UpdateTotals(id uint, totalCents, discountCents int64) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_cents":    totalCents,
		"discount_cents": discountCents,
	}).Error
}

func (r *OrderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
}
