package model

import "time"

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFillInBlank    QuestionType = "fill_in_blank"
	QuestionShortAnswer    QuestionType = "short_answer"
)

// QuizQuestion is stored inline on the quiz as JSON. CorrectAnswer is an
// option index for multiple choice and a string for the other types.
type QuizQuestion struct {
	ID            int          `json:"id"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer interface{}  `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
	Points        int          `json:"points"`
}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	TopicID      string         `gorm:"index;type:varchar(36);not null" json:"topicId"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Questions    []QuizQuestion `gorm:"serializer:json;type:json" json:"questions"`
	PassingScore int            `gorm:"default:70" json:"passingScore"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// GradedAnswer is the per-question outcome persisted with a result. The
// correct answer and explanation only ever travel here, after grading.
type GradedAnswer struct {
	QuestionID    int         `json:"questionId"`
	Question      string      `json:"question"`
	UserAnswer    interface{} `json:"userAnswer"`
	CorrectAnswer interface{} `json:"correctAnswer"`
	IsCorrect     bool        `json:"isCorrect"`
	Explanation   string      `json:"explanation"`
	Points        int         `json:"points"`
	TimeSpent     int         `json:"timeSpent"`
}

// QuizResult rows are append-only: attempts are never edited or deleted.
// swagger:model QuizResult
type QuizResult struct {
	UUIDBase
	UserID      string         `gorm:"index:idx_quiz_results_user_quiz;type:varchar(36);not null" json:"userId"`
	QuizID      string         `gorm:"index:idx_quiz_results_user_quiz;type:varchar(36);not null" json:"quizId"`
	Score       int            `gorm:"not null" json:"score"`
	Passed      bool           `gorm:"not null" json:"passed"`
	Answers     []GradedAnswer `gorm:"serializer:json;type:json" json:"answers"`
	TimeSpent   int            `gorm:"default:0" json:"timeSpent"`
	CompletedAt time.Time      `gorm:"index" json:"completedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
