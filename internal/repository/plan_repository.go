package repository

import (
	"kumba_backend/internal/model"

	"gorm.io/gorm"
)

type PlanRepository struct {
	DB *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{DB: db}
}

func (r *PlanRepository) Create(plan *model.LearningPlan) error {
	return r.DB.Create(plan).Error
}

func (r *PlanRepository) FindByID(id string) (*model.LearningPlan, error) {
	var plan model.LearningPlan
	err := r.DB.First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) FindByIDAndUser(id, userID string) (*model.LearningPlan, error) {
	var plan model.LearningPlan
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindWithTopics loads the plan and its topics ordered by day.
func (r *PlanRepository) FindWithTopics(id, userID string) (*model.LearningPlan, error) {
	var plan model.LearningPlan
	err := r.DB.Preload("Topics", func(db *gorm.DB) *gorm.DB {
		return db.Order("day_index ASC")
	}).Where("id = ? AND user_id = ?", id, userID).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) ListByUser(userID string) ([]model.LearningPlan, error) {
	var plans []model.LearningPlan
	err := r.DB.Preload("Topics", func(db *gorm.DB) *gorm.DB {
		return db.Order("day_index ASC")
	}).Where("user_id = ?", userID).Order("created_at DESC").Find(&plans).Error
	return plans, err
}

// UpdateGating persists the mode and its gating columns in one statement.
func (r *PlanRepository) UpdateGating(db *gorm.DB, id string, mode model.LearningMode, requireQuizPass bool, minimumScore int) error {
	if db == nil {
		db = r.DB
	}
	return db.Model(&model.LearningPlan{}).Where("id = ?", id).Updates(map[string]interface{}{
		"mode":              mode,
		"require_quiz_pass": requireQuizPass,
		"minimum_score":     minimumScore,
	}).Error
}

func (r *PlanRepository) UpdateStatus(db *gorm.DB, id string, status model.PlanStatus) error {
	if db == nil {
		db = r.DB
	}
	return db.Model(&model.LearningPlan{}).Where("id = ?", id).Update("status", status).Error
}
