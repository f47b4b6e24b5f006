package service

import (
	"errors"
	"fmt"

	"kumba_backend/internal/model"
	"kumba_backend/internal/repository"
	"kumba_backend/internal/util"

	"gorm.io/gorm"
)

// ProgressService is the unlock engine: it decides whether a topic may be
// entered and performs the cascading unlock when one is completed.
type ProgressService struct {
	PlanRepo     *repository.PlanRepository
	TopicRepo    *repository.TopicRepository
	QuizRepo     *repository.QuizRepository
	ProgressRepo *repository.ProgressRepository
	DB           *gorm.DB
}

func NewProgressService(
	planRepo *repository.PlanRepository,
	topicRepo *repository.TopicRepository,
	quizRepo *repository.QuizRepository,
	progressRepo *repository.ProgressRepository,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		PlanRepo:     planRepo,
		TopicRepo:    topicRepo,
		QuizRepo:     quizRepo,
		ProgressRepo: progressRepo,
		DB:           db,
	}
}

// AccessDecision is what CheckAccess reports. Message is informational text
// for the UI and carries no control semantics.
type AccessDecision struct {
	CanAccess        bool   `json:"canAccess"`
	IsCompleted      bool   `json:"isCompleted"`
	IsLocked         bool   `json:"isLocked"`
	PrerequisitesMet bool   `json:"prerequisitesMet"`
	Message          string `json:"message,omitempty"`
}

type CompletionResult struct {
	Progress      *model.LearningProgress `json:"progress"`
	NextTopic     *model.Topic            `json:"nextTopic,omitempty"`
	NextUnlocked  bool                    `json:"nextUnlocked"`
	PlanCompleted bool                    `json:"planCompleted"`
	Feedback      []string                `json:"feedback"`
}

func blockedByTopicMessage(t *model.Topic, lang model.Language) string {
	if lang == model.LanguageFrench {
		return fmt.Sprintf("Vous devez terminer le Jour %d: %s avant de continuer.", t.DayIndex, t.Title)
	}
	return fmt.Sprintf("You must complete Day %d: %s before continuing.", t.DayIndex, t.Title)
}

func blockedByQuizMessage(t *model.Topic, lang model.Language) string {
	if lang == model.LanguageFrench {
		return fmt.Sprintf("Vous devez réussir le quiz du Jour %d avant de continuer.", t.DayIndex)
	}
	return fmt.Sprintf("You must pass the quiz for Day %d before continuing.", t.DayIndex)
}

// CheckAccess walks every topic with a smaller day index and requires a
// completed progress row plus, when the prior topic is quizzed, a passing
// result. Day 1 is always accessible. The check is read-only and idempotent.
func (s *ProgressService) CheckAccess(userID, topicID string, lang model.Language) (*AccessDecision, error) {
	topic, err := s.TopicRepo.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	isCompleted := false
	if progress, err := s.ProgressRepo.FindByUserAndTopic(userID, topicID); err == nil {
		isCompleted = progress.Status == model.ProgressCompleted
	}

	if topic.DayIndex == 1 {
		return &AccessDecision{
			CanAccess:        true,
			IsCompleted:      isCompleted,
			PrerequisitesMet: true,
		}, nil
	}

	previous, err := s.TopicRepo.FindPreviousTopics(topic.PlanID, topic.DayIndex)
	if err != nil {
		return nil, err
	}

	prevIDs := make([]string, len(previous))
	for i, p := range previous {
		prevIDs[i] = p.ID
	}
	progressByTopic, err := s.ProgressRepo.MapByUserAndTopics(userID, prevIDs)
	if err != nil {
		return nil, err
	}
	quizByTopic, err := s.QuizRepo.FindByTopicIDs(prevIDs)
	if err != nil {
		return nil, err
	}
	quizIDs := make([]string, 0, len(quizByTopic))
	for _, q := range quizByTopic {
		quizIDs = append(quizIDs, q.ID)
	}
	passedQuizzes, err := s.QuizRepo.PassedQuizIDs(userID, quizIDs)
	if err != nil {
		return nil, err
	}

	for i := range previous {
		prev := &previous[i]

		prevProgress, ok := progressByTopic[prev.ID]
		if !ok || prevProgress.Status != model.ProgressCompleted {
			return &AccessDecision{
				IsCompleted: isCompleted,
				IsLocked:    true,
				Message:     blockedByTopicMessage(prev, lang),
			}, nil
		}

		if quiz, hasQuiz := quizByTopic[prev.ID]; hasQuiz && !passedQuizzes[quiz.ID] {
			return &AccessDecision{
				IsCompleted: isCompleted,
				IsLocked:    true,
				Message:     blockedByQuizMessage(prev, lang),
			}, nil
		}
	}

	return &AccessDecision{
		CanAccess:        true,
		IsCompleted:      isCompleted,
		PrerequisitesMet: true,
	}, nil
}

// StartTopic records the first interaction with a topic. Completed progress
// is never reverted by re-entry.
func (s *ProgressService) StartTopic(userID, topicID string, lang model.Language) (*model.LearningProgress, error) {
	decision, err := s.CheckAccess(userID, topicID, lang)
	if err != nil {
		return nil, err
	}
	if !decision.CanAccess {
		return nil, util.ErrTopicLocked
	}

	topic, err := s.TopicRepo.FindByID(topicID)
	if err != nil {
		return nil, err
	}
	return s.ProgressRepo.UpsertStarted(nil, userID, topicID, topic.PlanID)
}

// CompleteTopic marks a topic done for the user, unlocks the next day and,
// when it was the last one, completes the plan. The whole read-modify-write
// runs inside one transaction so the attempt is atomic per (user, topic).
func (s *ProgressService) CompleteTopic(userID, topicID string, timeSpent int, masteryScore *int, lang model.Language) (*CompletionResult, error) {
	if timeSpent < 0 {
		return nil, fmt.Errorf("invalid time spent: %d", timeSpent)
	}

	topic, err := s.TopicRepo.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	plan, err := s.PlanRepo.FindByID(topic.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, util.ErrPlanNotOwned
	}
	if topic.Status == model.TopicLocked {
		return nil, util.ErrTopicLocked
	}

	// Quiz gate: a quizzed topic only completes after a passing attempt, and
	// the quiz score wins over any caller-supplied mastery value.
	finalMastery := 100
	if masteryScore != nil {
		finalMastery = *masteryScore
	}
	quizPassed := true
	if quiz, err := s.QuizRepo.FindByTopic(topicID); err == nil {
		results, err := s.QuizRepo.ListResults(userID, quiz.ID)
		if err != nil {
			return nil, err
		}
		passedScore := -1
		for _, r := range results {
			if r.Passed {
				passedScore = r.Score
				break
			}
		}
		if passedScore < 0 {
			return nil, util.ErrQuizNotPassed
		}
		finalMastery = passedScore
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	result := &CompletionResult{}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		progress, err := s.ProgressRepo.UpsertCompleted(tx, userID, topicID, topic.PlanID, timeSpent, finalMastery)
		if err != nil {
			return err
		}
		result.Progress = progress

		if err := s.TopicRepo.UpdateStatus(tx, topic.ID, model.TopicCompleted); err != nil {
			return err
		}

		next, err := s.TopicRepo.FindByPlanAndDay(tx, topic.PlanID, topic.DayIndex+1)
		if err == nil {
			result.NextTopic = next
			if next.Status == model.TopicLocked {
				if err := s.TopicRepo.UpdateStatus(tx, next.ID, model.TopicUnlocked); err != nil {
					return err
				}
				next.Status = model.TopicUnlocked
				result.NextUnlocked = true
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		totalTopics, err := s.TopicRepo.CountByPlan(tx, topic.PlanID)
		if err != nil {
			return err
		}
		completed, err := s.ProgressRepo.CountCompletedInPlan(tx, userID, topic.PlanID)
		if err != nil {
			return err
		}
		if totalTopics > 0 && completed == totalTopics {
			if err := s.PlanRepo.UpdateStatus(tx, topic.PlanID, model.PlanCompleted); err != nil {
				return err
			}
			result.PlanCompleted = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Feedback = completionFeedback(finalMastery, timeSpent, topic.TimeEstimate, quizPassed, lang)
	return result, nil
}

// AddTimeSpent adds study minutes without touching completion state.
func (s *ProgressService) AddTimeSpent(userID, topicID string, minutes int) (*model.LearningProgress, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("invalid duration: %d", minutes)
	}
	topic, err := s.TopicRepo.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}
	return s.ProgressRepo.AddTimeSpent(userID, topicID, topic.PlanID, minutes)
}

// GetPlanProgress assembles the per-plan rollup the learn screen shows.
func (s *ProgressService) GetPlanProgress(userID, planID string) (*model.PlanProgress, error) {
	plan, err := s.PlanRepo.FindByID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, util.ErrPlanNotOwned
	}

	topics, err := s.TopicRepo.FindByPlanOrdered(planID)
	if err != nil {
		return nil, err
	}
	progressByTopic, err := s.ProgressRepo.MapByUserAndPlan(userID, planID)
	if err != nil {
		return nil, err
	}
	topicIDs := make([]string, len(topics))
	for i, t := range topics {
		topicIDs[i] = t.ID
	}
	quizByTopic, err := s.QuizRepo.FindByTopicIDs(topicIDs)
	if err != nil {
		return nil, err
	}
	quizIDs := make([]string, 0, len(quizByTopic))
	for _, q := range quizByTopic {
		quizIDs = append(quizIDs, q.ID)
	}
	passedQuizzes, err := s.QuizRepo.PassedQuizIDs(userID, quizIDs)
	if err != nil {
		return nil, err
	}

	out := &model.PlanProgress{
		TotalTopics:  len(topics),
		TotalQuizzes: len(quizByTopic),
		Topics:       make([]model.TopicProgressView, 0, len(topics)),
	}

	scoreSum, scoreCount := 0, 0
	for _, topic := range topics {
		view := model.TopicProgressView{
			ID:          topic.ID,
			Title:       topic.Title,
			DayIndex:    topic.DayIndex,
			Status:      model.ProgressNotStarted,
			TopicStatus: topic.Status,
		}
		if progress, ok := progressByTopic[topic.ID]; ok {
			view.Status = progress.Status
			view.CompletedAt = progress.CompletedAt
			view.TimeSpent = progress.TimeSpent
			out.TotalTimeSpent += progress.TimeSpent
			if progress.Status == model.ProgressCompleted {
				out.CompletedTopics++
				if progress.MasteryScore != nil {
					scoreSum += *progress.MasteryScore
					scoreCount++
				}
			}
		}
		if quiz, ok := quizByTopic[topic.ID]; ok && passedQuizzes[quiz.ID] {
			view.QuizPassed = true
			out.PassedQuizzes++
		}
		out.Topics = append(out.Topics, view)
	}

	if out.TotalTopics > 0 {
		out.ProgressPercentage = roundPercent(out.CompletedTopics, out.TotalTopics)
	}
	if scoreCount > 0 {
		out.AverageScore = roundDiv(scoreSum, scoreCount)
	}
	return out, nil
}

func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return roundDiv(part*100, whole)
}

func roundDiv(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(float64(sum)/float64(n) + 0.5)
}

func completionFeedback(masteryScore, timeSpent, estimate int, quizPassed bool, lang model.Language) []string {
	fr := lang == model.LanguageFrench
	var feedback []string

	switch {
	case masteryScore >= 90:
		if fr {
			feedback = append(feedback, "Excellente maîtrise ! Vous avez vraiment compris ce sujet.")
		} else {
			feedback = append(feedback, "Excellent mastery! You've truly understood this topic.")
		}
	case masteryScore >= 70:
		if fr {
			feedback = append(feedback, "Bon travail ! Vous avez bien saisi les concepts clés.")
		} else {
			feedback = append(feedback, "Good job! You've grasped the key concepts well.")
		}
	case quizPassed:
		if fr {
			feedback = append(feedback, "Réussi ! Pensez à réviser pour renforcer votre compréhension.")
		} else {
			feedback = append(feedback, "You passed! Consider reviewing to strengthen your understanding.")
		}
	}

	if estimate <= 0 {
		estimate = 60
	}
	ratio := float64(timeSpent) / float64(estimate)
	switch {
	case ratio > 1.5:
		if fr {
			feedback = append(feedback, "Vous avez pris le temps de bien comprendre la matière, belle persévérance !")
		} else {
			feedback = append(feedback, "You took extra time to thoroughly understand the material, great dedication!")
		}
	case ratio < 0.5:
		if fr {
			feedback = append(feedback, "Terminé rapidement ! Assurez-vous d'avoir retenu les points clés.")
		} else {
			feedback = append(feedback, "You completed this quickly! Make sure you've absorbed all the key points.")
		}
	default:
		if fr {
			feedback = append(feedback, "Rythme parfait ! Vous gérez bien votre temps d'étude.")
		} else {
			feedback = append(feedback, "Perfect pacing! You're managing your study time well.")
		}
	}

	return feedback
}
