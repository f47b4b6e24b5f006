package model

import "time"

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// LearningProgress is the durable completion signal, one row per
// (user, topic). TimeSpent only ever grows; completed is terminal.
// swagger:model LearningProgress
type LearningProgress struct {
	UUIDBase
	UserID       string         `gorm:"uniqueIndex:idx_progress_user_topic;type:varchar(36);not null" json:"userId"`
	TopicID      string         `gorm:"uniqueIndex:idx_progress_user_topic;type:varchar(36);not null" json:"topicId"`
	PlanID       string         `gorm:"index;type:varchar(36);not null" json:"planId"`
	Status       ProgressStatus `gorm:"type:varchar(16);default:'not_started'" json:"status"`
	CompletedAt  *time.Time     `gorm:"index" json:"completedAt,omitempty"`
	TimeSpent    int            `gorm:"default:0" json:"timeSpent"`
	MasteryScore *int           `json:"masteryScore,omitempty"`
}

func (LearningProgress) TableName() string {
	return "learning_progress"
}
