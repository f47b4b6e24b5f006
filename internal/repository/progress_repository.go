package repository

import (
	"time"

	"kumba_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndTopic(userID, topicID string) (*model.LearningProgress, error) {
	var progress model.LearningProgress
	err := r.DB.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpsertStarted creates or refreshes a progress row as in_progress. A row
// that is already completed stays completed: the transition is terminal.
func (r *ProgressRepository) UpsertStarted(db *gorm.DB, userID, topicID, planID string) (*model.LearningProgress, error) {
	if db == nil {
		db = r.DB
	}
	progress := model.LearningProgress{
		UserID:  userID,
		TopicID: topicID,
		PlanID:  planID,
		Status:  model.ProgressInProgress,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status": gorm.Expr("CASE WHEN status = ? THEN status ELSE ? END",
				model.ProgressCompleted, model.ProgressInProgress),
			"updated_at": time.Now(),
		}),
	}).Create(&progress).Error
	if err != nil {
		return nil, err
	}
	return r.reload(db, userID, topicID)
}

// UpsertCompleted marks the (user, topic) progress completed, adding the new
// minutes on top of whatever was already recorded. Time only ever grows.
func (r *ProgressRepository) UpsertCompleted(db *gorm.DB, userID, topicID, planID string, timeSpent int, masteryScore int) (*model.LearningProgress, error) {
	if db == nil {
		db = r.DB
	}
	now := time.Now()
	progress := model.LearningProgress{
		UserID:       userID,
		TopicID:      topicID,
		PlanID:       planID,
		Status:       model.ProgressCompleted,
		CompletedAt:  &now,
		TimeSpent:    timeSpent,
		MasteryScore: &masteryScore,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":        model.ProgressCompleted,
			"completed_at":  now,
			"time_spent":    gorm.Expr("time_spent + ?", timeSpent),
			"mastery_score": masteryScore,
			"updated_at":    now,
		}),
	}).Create(&progress).Error
	if err != nil {
		return nil, err
	}
	return r.reload(db, userID, topicID)
}

// AddTimeSpent increments the cumulative minutes, creating the row as
// in_progress when it does not exist yet.
func (r *ProgressRepository) AddTimeSpent(userID, topicID, planID string, minutes int) (*model.LearningProgress, error) {
	progress := model.LearningProgress{
		UserID:    userID,
		TopicID:   topicID,
		PlanID:    planID,
		Status:    model.ProgressInProgress,
		TimeSpent: minutes,
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"time_spent": gorm.Expr("time_spent + ?", minutes),
			"updated_at": time.Now(),
		}),
	}).Create(&progress).Error
	if err != nil {
		return nil, err
	}
	return r.reload(r.DB, userID, topicID)
}

func (r *ProgressRepository) reload(db *gorm.DB, userID, topicID string) (*model.LearningProgress, error) {
	var progress model.LearningProgress
	err := db.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// MapByUserAndPlan returns topic id -> progress for one plan.
func (r *ProgressRepository) MapByUserAndPlan(userID, planID string) (map[string]model.LearningProgress, error) {
	var rows []model.LearningProgress
	err := r.DB.Where("user_id = ? AND plan_id = ?", userID, planID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	byTopic := make(map[string]model.LearningProgress, len(rows))
	for _, row := range rows {
		byTopic[row.TopicID] = row
	}
	return byTopic, nil
}

// MapByUserAndTopics returns topic id -> progress across plans.
func (r *ProgressRepository) MapByUserAndTopics(userID string, topicIDs []string) (map[string]model.LearningProgress, error) {
	byTopic := make(map[string]model.LearningProgress)
	if len(topicIDs) == 0 {
		return byTopic, nil
	}
	var rows []model.LearningProgress
	err := r.DB.Where("user_id = ? AND topic_id IN ?", userID, topicIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		byTopic[row.TopicID] = row
	}
	return byTopic, nil
}

func (r *ProgressRepository) CountCompletedInPlan(db *gorm.DB, userID, planID string) (int64, error) {
	if db == nil {
		db = r.DB
	}
	var count int64
	err := db.Model(&model.LearningProgress{}).
		Where("user_id = ? AND plan_id = ? AND status = ?", userID, planID, model.ProgressCompleted).
		Count(&count).Error
	return count, err
}

// ListCompletedSince returns completed progress rows newer than since,
// newest first. Feeds the streak and the activity feed.
func (r *ProgressRepository) ListCompletedSince(userID string, since time.Time) ([]model.LearningProgress, error) {
	var rows []model.LearningProgress
	err := r.DB.Where("user_id = ? AND status = ? AND completed_at >= ?",
		userID, model.ProgressCompleted, since).
		Order("completed_at DESC").Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) ListByUser(userID string) ([]model.LearningProgress, error) {
	var rows []model.LearningProgress
	err := r.DB.Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}
