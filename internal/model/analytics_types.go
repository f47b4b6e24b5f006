package model

import "time"

// Derived read-only view types for the dashboard and charts. These never map
// to tables; they are assembled from progress and quiz result rows.

type Overview struct {
	TotalPlans       int `json:"totalPlans"`
	ActivePlans      int `json:"activePlans"`
	CompletedPlans   int `json:"completedPlans"`
	TotalTopics      int `json:"totalTopics"`
	CompletedTopics  int `json:"completedTopics"`
	TotalQuizzes     int `json:"totalQuizzes"`
	PassedQuizzes    int `json:"passedQuizzes"`
	AverageQuizScore int `json:"averageQuizScore"`
	TotalStudyTime   int `json:"totalStudyTime"`
	LearningStreak   int `json:"learningStreak"`
	WeeklyVelocity   int `json:"weeklyVelocity"`
}

type StudyDay struct {
	Date            string `json:"date"`
	TimeSpent       int    `json:"timeSpent"`
	TopicsCompleted int    `json:"topicsCompleted"`
}

type PlanProgressPoint struct {
	PlanID          string `json:"planId"`
	PlanTitle       string `json:"planTitle"`
	Progress        int    `json:"progress"`
	CompletedTopics int    `json:"completedTopics"`
	TotalTopics     int    `json:"totalTopics"`
}

type QuizWeek struct {
	Week         string `json:"week"`
	AverageScore int    `json:"averageScore"`
	QuizCount    int    `json:"quizCount"`
	PassRate     int    `json:"passRate"`
}

type DashboardCharts struct {
	StudyTime       []StudyDay          `json:"studyTime"`
	Progress        []PlanProgressPoint `json:"progress"`
	QuizPerformance []QuizWeek          `json:"quizPerformance"`
}

type RecentActivity struct {
	ID           string     `json:"id"`
	TopicTitle   string     `json:"topicTitle"`
	DayIndex     int        `json:"dayIndex"`
	CompletedAt  *time.Time `json:"completedAt"`
	TimeSpent    int        `json:"timeSpent"`
	MasteryScore *int       `json:"masteryScore,omitempty"`
}

type UpcomingTopic struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	DayIndex     int    `json:"dayIndex"`
	TimeEstimate int    `json:"timeEstimate"`
	PlanTitle    string `json:"planTitle"`
}

type Dashboard struct {
	Overview       Overview         `json:"overview"`
	Charts         DashboardCharts  `json:"charts"`
	RecentActivity []RecentActivity `json:"recentActivity"`
	UpcomingTopics []UpcomingTopic  `json:"upcomingTopics"`
	Insights       []string         `json:"insights"`
}

// Per-plan progress rollup.

type TopicProgressView struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	DayIndex    int            `json:"dayIndex"`
	Status      ProgressStatus `json:"status"`
	TopicStatus TopicStatus    `json:"topicStatus"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	TimeSpent   int            `json:"timeSpent"`
	QuizPassed  bool           `json:"quizPassed"`
}

type PlanProgress struct {
	TotalTopics        int                 `json:"totalTopics"`
	CompletedTopics    int                 `json:"completedTopics"`
	ProgressPercentage int                 `json:"progressPercentage"`
	TotalQuizzes       int                 `json:"totalQuizzes"`
	PassedQuizzes      int                 `json:"passedQuizzes"`
	AverageScore       int                 `json:"averageScore"`
	TotalTimeSpent     int                 `json:"totalTimeSpent"`
	Topics             []TopicProgressView `json:"topics"`
}
