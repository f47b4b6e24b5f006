package repository

import (
	"kumba_backend/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) Create(topic *model.Topic) error {
	return r.DB.Create(topic).Error
}

func (r *TopicRepository) FindByID(id string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.First(&topic, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// FindByPlanOrdered returns every topic of a plan in day order.
func (r *TopicRepository) FindByPlanOrdered(planID string) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Where("plan_id = ?", planID).Order("day_index ASC").Find(&topics).Error
	return topics, err
}

// FindPreviousTopics returns the topics of the same plan with a smaller day
// index, ascending. These are the prerequisites the unlock engine walks.
func (r *TopicRepository) FindPreviousTopics(planID string, dayIndex int) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Where("plan_id = ? AND day_index < ?", planID, dayIndex).
		Order("day_index ASC").Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) FindByPlanAndDay(db *gorm.DB, planID string, dayIndex int) (*model.Topic, error) {
	if db == nil {
		db = r.DB
	}
	var topic model.Topic
	err := db.Where("plan_id = ? AND day_index = ?", planID, dayIndex).First(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *TopicRepository) CountByPlan(db *gorm.DB, planID string) (int64, error) {
	if db == nil {
		db = r.DB
	}
	var count int64
	err := db.Model(&model.Topic{}).Where("plan_id = ?", planID).Count(&count).Error
	return count, err
}

func (r *TopicRepository) UpdateStatus(db *gorm.DB, id string, status model.TopicStatus) error {
	if db == nil {
		db = r.DB
	}
	return db.Model(&model.Topic{}).Where("id = ?", id).Update("status", status).Error
}
