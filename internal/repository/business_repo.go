package repository

import (
	"vecindo/internal/models"

	"gorm.io/gorm"
)

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) Create(b *models.Business) error {
	return r.db.Create(b).Error
}

func (r *BusinessRepository) GetByID(id uint) (*models.Business, error) {
	var b models.Business
	if err := r.db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepository) ListByUser(userID uint) ([]models.Business, error) {
	var list []models.Business
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// ListActive returns active storefronts for public browsing, optionally
// filtered by category.
func (r *BusinessRepository) ListActive(category string, limit, offset int) ([]models.Business, error) {
	q := r.db.Where("active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var list []models.Business
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *BusinessRepository) Update(b *models.Business) error {
	return r.db.Save(b).Error
}
