package model

type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
)

type LearningMode string

const (
	ModeStrict   LearningMode = "strict"
	ModeFlexible LearningMode = "flexible"
	ModeExamPrep LearningMode = "exam-prep"
	ModeReview   LearningMode = "review"
)

func (m LearningMode) Valid() bool {
	switch m {
	case ModeStrict, ModeFlexible, ModeExamPrep, ModeReview:
		return true
	}
	return false
}

// LearningPlan owns an ordered sequence of Topics keyed by day index.
// The mode is a typed column; gating settings stored alongside it are
// advisory for the UI, the quiz's own passing score decides pass/fail.
// swagger:model LearningPlan
type LearningPlan struct {
	UUIDBase
	Title           string       `gorm:"size:255;not null" json:"title"`
	Description     string       `gorm:"type:text" json:"description"`
	TotalDays       int          `gorm:"default:0" json:"totalDays"`
	Status          PlanStatus   `gorm:"type:varchar(16);default:'active'" json:"status"`
	Mode            LearningMode `gorm:"type:varchar(16);default:'strict'" json:"mode"`
	RequireQuizPass bool         `gorm:"default:true" json:"requireQuizPass"`
	MinimumScore    int          `gorm:"default:70" json:"minimumScore"`
	UserID          string       `gorm:"index;type:varchar(36);not null" json:"userId"`
	MaterialID      string       `gorm:"index;type:varchar(36)" json:"materialId"`
	Topics          []Topic      `gorm:"foreignKey:PlanID" json:"topics,omitempty"`
}

func (LearningPlan) TableName() string {
	return "learning_plans"
}
