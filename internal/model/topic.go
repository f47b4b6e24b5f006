package model

type TopicStatus string

const (
	TopicLocked    TopicStatus = "locked"
	TopicUnlocked  TopicStatus = "unlocked"
	TopicCompleted TopicStatus = "completed"
)

// Topic is one day's unit of learning content. Day 1 is created unlocked,
// every later day locked; only the unlock engine and the mode configurator
// mutate the status.
// swagger:model Topic
type Topic struct {
	UUIDBase
	PlanID       string      `gorm:"index;type:varchar(36);not null" json:"planId"`
	DayIndex     int         `gorm:"not null;index" json:"dayIndex"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	Content      string      `gorm:"type:longtext" json:"content"`
	Goals        []string    `gorm:"serializer:json;type:json" json:"goals"`
	TimeEstimate int         `gorm:"default:60" json:"timeEstimate"`
	Status       TopicStatus `gorm:"type:varchar(16);default:'locked'" json:"status"`
}

func (Topic) TableName() string {
	return "topics"
}
