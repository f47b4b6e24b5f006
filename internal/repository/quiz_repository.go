package repository

import (
	"time"

	"kumba_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByTopic(topicID string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Where("topic_id = ?", topicID).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindByTopicIDs maps topic id to its quiz for a batch of topics.
func (r *QuizRepository) FindByTopicIDs(topicIDs []string) (map[string]model.Quiz, error) {
	quizzes := make(map[string]model.Quiz)
	if len(topicIDs) == 0 {
		return quizzes, nil
	}
	var rows []model.Quiz
	if err := r.DB.Where("topic_id IN ?", topicIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, q := range rows {
		quizzes[q.TopicID] = q
	}
	return quizzes, nil
}

func (r *QuizRepository) CountAttempts(db *gorm.DB, userID, quizID string) (int64, error) {
	if db == nil {
		db = r.DB
	}
	var count int64
	err := db.Model(&model.QuizResult{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).Count(&count).Error
	return count, err
}

func (r *QuizRepository) CreateResult(db *gorm.DB, result *model.QuizResult) error {
	if db == nil {
		db = r.DB
	}
	return db.Create(result).Error
}

func (r *QuizRepository) ListResults(userID, quizID string) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("completed_at DESC").Find(&results).Error
	return results, err
}

// HasPassed reports whether any passing attempt exists for the quiz.
func (r *QuizRepository) HasPassed(userID, quizID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.QuizResult{}).
		Where("user_id = ? AND quiz_id = ? AND passed = ?", userID, quizID, true).
		Count(&count).Error
	return count > 0, err
}

// PassedQuizIDs returns the subset of quizIDs the user has passed at least once.
func (r *QuizRepository) PassedQuizIDs(userID string, quizIDs []string) (map[string]bool, error) {
	passed := make(map[string]bool)
	if len(quizIDs) == 0 {
		return passed, nil
	}
	var rows []model.QuizResult
	err := r.DB.Select("quiz_id").
		Where("user_id = ? AND quiz_id IN ? AND passed = ?", userID, quizIDs, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		passed[row.QuizID] = true
	}
	return passed, nil
}

// ListResultsByUserSince returns every attempt of the user newer than since,
// oldest first. Used by the analytics charts.
func (r *QuizRepository) ListResultsByUserSince(userID string, since time.Time) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ? AND completed_at >= ?", userID, since).
		Order("completed_at ASC").Find(&results).Error
	return results, err
}

func (r *QuizRepository) ListResultsByUser(userID string) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ?", userID).Order("completed_at ASC").Find(&results).Error
	return results, err
}
