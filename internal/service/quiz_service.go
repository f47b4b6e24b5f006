package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kumba_backend/internal/model"
	"kumba_backend/internal/repository"
	"kumba_backend/internal/util"

	"gorm.io/gorm"
)

const MaxQuizAttempts = 3

type QuizService struct {
	QuizRepo     *repository.QuizRepository
	TopicRepo    *repository.TopicRepository
	PlanRepo     *repository.PlanRepository
	Progress     *ProgressService
	DB           *gorm.DB
	maxAttempts  int
	passingScore int
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	topicRepo *repository.TopicRepository,
	planRepo *repository.PlanRepository,
	progress *ProgressService,
	db *gorm.DB,
	maxAttempts, defaultPassingScore int,
) *QuizService {
	if maxAttempts <= 0 {
		maxAttempts = MaxQuizAttempts
	}
	if defaultPassingScore <= 0 {
		defaultPassingScore = 70
	}
	return &QuizService{
		QuizRepo:     quizRepo,
		TopicRepo:    topicRepo,
		PlanRepo:     planRepo,
		Progress:     progress,
		DB:           db,
		maxAttempts:  maxAttempts,
		passingScore: defaultPassingScore,
	}
}

// QuestionView is a question as shown while taking the quiz. The correct
// answer and explanation stay server-side until the attempt is graded.
type QuestionView struct {
	ID       int                `json:"id"`
	Type     model.QuestionType `json:"type"`
	Question string             `json:"question"`
	Options  []string           `json:"options,omitempty"`
	Points   int                `json:"points"`
}

type QuizView struct {
	ID                string         `json:"id"`
	TopicID           string         `json:"topicId"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Questions         []QuestionView `json:"questions"`
	PassingScore      int            `json:"passingScore"`
	AttemptsUsed      int            `json:"attemptsUsed"`
	AttemptsRemaining int            `json:"attemptsRemaining"`
	HasPassed         bool           `json:"hasPassed"`
}

type SubmittedAnswer struct {
	QuestionID int         `json:"questionId" binding:"required"`
	Answer     interface{} `json:"answer"`
	TimeSpent  int         `json:"timeSpent"`
}

type SubmissionResult struct {
	ResultID          string               `json:"resultId"`
	Score             int                  `json:"score"`
	Passed            bool                 `json:"passed"`
	PassingScore      int                  `json:"passingScore"`
	Answers           []model.GradedAnswer `json:"answers"`
	AttemptsUsed      int                  `json:"attemptsUsed"`
	AttemptsRemaining int                  `json:"attemptsRemaining"`
	TopicCompleted    bool                 `json:"topicCompleted"`
	NextUnlocked      bool                 `json:"nextUnlocked"`
	PlanCompleted     bool                 `json:"planCompleted"`
}

// GetQuizForTaking returns the quiz with answers stripped, plus the caller's
// attempt standing. Access follows the owning topic's unlock state.
func (s *QuizService) GetQuizForTaking(userID, quizID string) (*QuizView, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if err := s.authorize(userID, quiz.TopicID); err != nil {
		return nil, err
	}

	attempts, err := s.QuizRepo.CountAttempts(nil, userID, quiz.ID)
	if err != nil {
		return nil, err
	}
	passed, err := s.QuizRepo.HasPassed(userID, quiz.ID)
	if err != nil {
		return nil, err
	}

	view := &QuizView{
		ID:                quiz.ID,
		TopicID:           quiz.TopicID,
		Title:             quiz.Title,
		Description:       quiz.Description,
		Questions:         make([]QuestionView, 0, len(quiz.Questions)),
		PassingScore:      quiz.PassingScore,
		AttemptsUsed:      int(attempts),
		AttemptsRemaining: remaining(int(attempts), s.maxAttempts),
		HasPassed:         passed,
	}
	for _, q := range quiz.Questions {
		view.Questions = append(view.Questions, QuestionView{
			ID:       q.ID,
			Type:     q.Type,
			Question: q.Question,
			Options:  q.Options,
			Points:   q.Points,
		})
	}
	return view, nil
}

// SubmitQuiz grades an attempt and persists it. The attempt count is checked
// inside the same transaction as the insert, so two racing submissions cannot
// both land as attempt three. A passing attempt also completes the topic.
func (s *QuizService) SubmitQuiz(userID, quizID string, answers []SubmittedAnswer, totalTime int, lang model.Language) (*SubmissionResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if err := s.authorize(userID, quiz.TopicID); err != nil {
		return nil, err
	}

	score, graded := gradeQuiz(quiz.Questions, answers)
	passingScore := quiz.PassingScore
	if passingScore <= 0 {
		passingScore = s.passingScore
	}
	passed := score >= passingScore

	result := &model.QuizResult{
		UserID:      userID,
		QuizID:      quiz.ID,
		Score:       score,
		Passed:      passed,
		Answers:     graded,
		TimeSpent:   totalTime,
		CompletedAt: time.Now().UTC(),
	}

	var attemptsUsed int
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		attempts, err := s.QuizRepo.CountAttempts(tx, userID, quiz.ID)
		if err != nil {
			return err
		}
		if int(attempts) >= s.maxAttempts {
			return util.ErrAttemptsExceeded
		}
		if err := s.QuizRepo.CreateResult(tx, result); err != nil {
			return err
		}
		attemptsUsed = int(attempts) + 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &SubmissionResult{
		ResultID:          result.ID,
		Score:             score,
		Passed:            passed,
		PassingScore:      passingScore,
		Answers:           graded,
		AttemptsUsed:      attemptsUsed,
		AttemptsRemaining: remaining(attemptsUsed, s.maxAttempts),
	}

	if passed {
		completion, err := s.Progress.CompleteTopic(userID, quiz.TopicID, totalTime, &score, lang)
		if err != nil {
			return nil, err
		}
		out.TopicCompleted = true
		out.NextUnlocked = completion.NextUnlocked
		out.PlanCompleted = completion.PlanCompleted
	}
	return out, nil
}

// ListResults returns the caller's attempt history for one quiz, newest first.
func (s *QuizService) ListResults(userID, quizID string) ([]model.QuizResult, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return s.QuizRepo.ListResults(userID, quizID)
}

// authorize gates quiz access on the topic's own lock status, not on the
// sequential prerequisite walk. The learning mode decides what is unlocked:
// flexible mode opens later days without their predecessors being done, and
// those quizzes must be takeable or the topics could never complete.
func (s *QuizService) authorize(userID, topicID string) error {
	topic, err := s.TopicRepo.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTopicNotFound
		}
		return err
	}
	plan, err := s.PlanRepo.FindByID(topic.PlanID)
	if err != nil {
		return err
	}
	if plan.UserID != userID {
		return util.ErrPlanNotOwned
	}
	if topic.Status == model.TopicLocked {
		return util.ErrTopicLocked
	}
	return nil
}

func remaining(used, max int) int {
	if used >= max {
		return 0
	}
	return max - used
}

// gradeQuiz scores every question in the quiz, treating missing answers as
// wrong. The score is earned points over total points, rounded to a percent;
// a quiz whose questions carry no points grades to zero.
func gradeQuiz(questions []model.QuizQuestion, answers []SubmittedAnswer) (int, []model.GradedAnswer) {
	byID := make(map[int]SubmittedAnswer, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a
	}

	totalPoints := 0
	earnedPoints := 0
	graded := make([]model.GradedAnswer, 0, len(questions))
	for _, q := range questions {
		totalPoints += q.Points
		submitted, answered := byID[q.ID]
		correct := answered && answersMatch(q, submitted.Answer)
		if correct {
			earnedPoints += q.Points
		}
		ga := model.GradedAnswer{
			QuestionID:    q.ID,
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
			Explanation:   q.Explanation,
			Points:        q.Points,
		}
		if answered {
			ga.UserAnswer = submitted.Answer
			ga.TimeSpent = submitted.TimeSpent
		}
		graded = append(graded, ga)
	}

	if totalPoints == 0 {
		return 0, graded
	}
	score := int(float64(earnedPoints)/float64(totalPoints)*100 + 0.5)
	return score, graded
}

// answersMatch compares a submitted answer against the stored one. Multiple
// choice answers are option indexes and compare numerically; text answers
// compare case-insensitively after trimming.
func answersMatch(q model.QuizQuestion, answer interface{}) bool {
	if answer == nil || q.CorrectAnswer == nil {
		return false
	}
	if q.Type == model.QuestionMultipleChoice {
		want, okW := toIndex(q.CorrectAnswer)
		got, okG := toIndex(answer)
		return okW && okG && want == got
	}
	return normalizeText(q.CorrectAnswer) == normalizeText(answer)
}

func toIndex(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func normalizeText(v interface{}) string {
	return strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
}
