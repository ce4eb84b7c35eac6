package repository

import (
	"vecindo/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) GetByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByBusiness returns all products of a business; pass activeOnly for the
// public catalog view.
func (r *ProductRepository) ListByBusiness(businessID uint, activeOnly bool) ([]models.Product, error) {
	q := r.db.Where("business_id = ?", businessID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var list []models.Product
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ProductRepository) CountActiveByBusiness(businessID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Product{}).
		Where("business_id = ? AND active = ?", businessID, true).Count(&n).Error
	return n, err
}

func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}
