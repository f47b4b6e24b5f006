package repository

import (
	"kumba_backend/internal/model"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(material *model.LearningMaterial) error {
	return r.DB.Create(material).Error
}

func (r *MaterialRepository) FindByIDAndUser(id, userID string) (*model.LearningMaterial, error) {
	var material model.LearningMaterial
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&material).Error
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) ListByUser(userID string) ([]model.LearningMaterial, error) {
	var materials []model.LearningMaterial
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) Update(material *model.LearningMaterial) error {
	return r.DB.Save(material).Error
}
