package service

import (
	"errors"
	"fmt"

	"kumba_backend/internal/config"
	"kumba_backend/internal/model"
	"kumba_backend/internal/repository"
	"kumba_backend/internal/util"
	"kumba_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// roadmapGenerator is what the roadmap service needs from the AI client.
type roadmapGenerator interface {
	GenerateRoadmap(content string, days int, lang model.Language) (*GeneratedRoadmap, error)
	GenerateQuiz(topicContent string, lang model.Language) (*GeneratedQuiz, error)
}

// RoadmapService turns processed material into a persisted plan with topics
// and quizzes. Upstream output is validated and repaired; when the model
// fails or returns garbage we build a deterministic template plan instead of
// surfacing an error to the user.
type RoadmapService struct {
	MaterialRepo *repository.MaterialRepository
	PlanRepo     *repository.PlanRepository
	AI           roadmapGenerator
	DB           *gorm.DB
	cfg          config.LearningConfig
}

func NewRoadmapService(
	materialRepo *repository.MaterialRepository,
	planRepo *repository.PlanRepository,
	ai roadmapGenerator,
	db *gorm.DB,
	cfg config.LearningConfig,
) *RoadmapService {
	if cfg.MinPlanDays <= 0 {
		cfg.MinPlanDays = 3
	}
	if cfg.MaxPlanDays < cfg.MinPlanDays {
		cfg.MaxPlanDays = 14
	}
	if cfg.DefaultPlanDays < cfg.MinPlanDays || cfg.DefaultPlanDays > cfg.MaxPlanDays {
		cfg.DefaultPlanDays = 7
	}
	if cfg.PassingScore <= 0 || cfg.PassingScore > 100 {
		cfg.PassingScore = 70
	}
	return &RoadmapService{
		MaterialRepo: materialRepo,
		PlanRepo:     planRepo,
		AI:           ai,
		DB:           db,
		cfg:          cfg,
	}
}

// GeneratePlan creates a plan from one of the user's processed materials.
// requestedDays of 0 means the configured default; anything else is clamped
// into the allowed range.
func (s *RoadmapService) GeneratePlan(userID, materialID string, requestedDays int, lang model.Language) (*model.LearningPlan, error) {
	material, err := s.MaterialRepo.FindByIDAndUser(materialID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMaterialNotFound
		}
		return nil, err
	}
	if material.Status != model.MaterialCompleted || material.ExtractedText == "" {
		return nil, util.ErrMaterialNotReady
	}

	days := requestedDays
	if days == 0 {
		days = s.cfg.DefaultPlanDays
	}
	days = clamp(days, s.cfg.MinPlanDays, s.cfg.MaxPlanDays)

	roadmap := s.buildRoadmap(material, days, lang)

	plan := &model.LearningPlan{
		Title:           fmt.Sprintf("Learning Plan: %s", material.Title),
		Description:     fmt.Sprintf("%d-day structured learning plan for %s", days, material.Title),
		TotalDays:       days,
		Status:          model.PlanActive,
		Mode:            model.ModeStrict,
		RequireQuizPass: true,
		MinimumScore:    s.cfg.PassingScore,
		UserID:          userID,
		MaterialID:      material.ID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return err
		}
		for _, day := range roadmap {
			topic := &model.Topic{
				PlanID:       plan.ID,
				DayIndex:     day.DayIndex,
				Title:        day.Title,
				Description:  day.Description,
				Content:      topicContent(day),
				Goals:        day.Goals,
				TimeEstimate: day.TimeEstimate,
				Status:       model.TopicLocked,
			}
			if day.DayIndex == 1 {
				topic.Status = model.TopicUnlocked
			}
			if err := tx.Create(topic).Error; err != nil {
				return err
			}

			quiz := s.buildQuiz(topic, lang)
			quiz.TopicID = topic.ID
			if err := tx.Create(quiz).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.PlanRepo.FindWithTopics(plan.ID, userID)
}

// buildRoadmap returns a validated day list of exactly the requested length.
func (s *RoadmapService) buildRoadmap(material *model.LearningMaterial, days int, lang model.Language) []RoadmapDay {
	generated, err := s.AI.GenerateRoadmap(material.ExtractedText, days, lang)
	if err != nil || generated == nil || len(generated.Roadmap) == 0 {
		logger.Log.Warn("roadmap generation failed, using template",
			zap.String("materialId", material.ID), zap.Error(err))
		return templateRoadmap(material.Title, days)
	}

	roadmap := generated.Roadmap
	if len(roadmap) > days {
		roadmap = roadmap[:days]
	}
	for len(roadmap) < days {
		filler := templateRoadmap(material.Title, days)[len(roadmap)]
		roadmap = append(roadmap, filler)
	}
	for i := range roadmap {
		roadmap[i].DayIndex = i + 1
		if roadmap[i].Title == "" {
			roadmap[i].Title = fmt.Sprintf("Day %d: %s", i+1, material.Title)
		}
		if roadmap[i].TimeEstimate <= 0 {
			roadmap[i].TimeEstimate = 60
		}
		if len(roadmap[i].Goals) == 0 {
			roadmap[i].Goals = []string{fmt.Sprintf("Understand the material for day %d", i+1)}
		}
	}
	return roadmap
}

// buildQuiz returns a quiz whose question points always sum to 100.
func (s *RoadmapService) buildQuiz(topic *model.Topic, lang model.Language) *model.Quiz {
	quiz := &model.Quiz{
		Title:        fmt.Sprintf("Quiz: %s", topic.Title),
		Description:  fmt.Sprintf("Test your understanding of %s", topic.Title),
		PassingScore: s.cfg.PassingScore,
	}

	generated, err := s.AI.GenerateQuiz(topic.Content, lang)
	if err != nil || generated == nil || len(generated.Quiz.Questions) == 0 {
		logger.Log.Warn("quiz generation failed, using template",
			zap.String("topic", topic.Title), zap.Error(err))
		quiz.Questions = templateQuestions(topic.Title)
	} else {
		if generated.Quiz.Title != "" {
			quiz.Title = generated.Quiz.Title
		}
		if generated.Quiz.Description != "" {
			quiz.Description = generated.Quiz.Description
		}
		if generated.Quiz.PassingScore > 0 && generated.Quiz.PassingScore <= 100 {
			quiz.PassingScore = generated.Quiz.PassingScore
		}
		quiz.Questions = generated.Quiz.Questions
	}

	for i := range quiz.Questions {
		quiz.Questions[i].ID = i + 1
	}
	quiz.Questions = normalizePoints(quiz.Questions)
	return quiz
}

// normalizePoints rescales question points so they sum to exactly 100, with
// any rounding remainder going to the last question.
func normalizePoints(questions []model.QuizQuestion) []model.QuizQuestion {
	if len(questions) == 0 {
		return questions
	}
	total := 0
	for _, q := range questions {
		if q.Points > 0 {
			total += q.Points
		}
	}

	if total <= 0 {
		share := 100 / len(questions)
		for i := range questions {
			questions[i].Points = share
		}
		questions[len(questions)-1].Points = 100 - share*(len(questions)-1)
		return questions
	}

	assigned := 0
	for i := range questions {
		points := questions[i].Points
		if points < 0 {
			points = 0
		}
		if i == len(questions)-1 {
			questions[i].Points = 100 - assigned
		} else {
			scaled := int(float64(points)/float64(total)*100 + 0.5)
			questions[i].Points = scaled
			assigned += scaled
		}
	}
	return questions
}

func topicContent(day RoadmapDay) string {
	content := day.Description
	for _, point := range day.KeyPoints {
		content += "\n- " + point
	}
	return content
}

func templateRoadmap(materialTitle string, days int) []RoadmapDay {
	phases := []struct {
		title       string
		description string
	}{
		{"Foundation Concepts", "Understanding the basic principles and terminology"},
		{"Building Knowledge", "Expanding on foundation concepts with deeper understanding"},
		{"Core Applications", "Applying the core ideas to concrete problems"},
		{"Advanced Topics", "Working through the harder material"},
		{"Integration and Mastery", "Connecting everything and testing mastery"},
	}

	roadmap := make([]RoadmapDay, days)
	for i := 0; i < days; i++ {
		phase := phases[i*len(phases)/days]
		roadmap[i] = RoadmapDay{
			DayIndex:     i + 1,
			Title:        fmt.Sprintf("Day %d: %s", i+1, phase.title),
			Description:  fmt.Sprintf("%s of %s", phase.description, materialTitle),
			Goals:        []string{"Learn the key vocabulary", "Understand the main concepts", "Apply what you learned"},
			TimeEstimate: 90,
			KeyPoints:    []string{"Definitions", "Core principles", "Practical examples"},
		}
	}
	return roadmap
}

func templateQuestions(topicTitle string) []model.QuizQuestion {
	return []model.QuizQuestion{
		{
			ID:            1,
			Type:          model.QuestionMultipleChoice,
			Question:      fmt.Sprintf("What is the main focus of %s?", topicTitle),
			Options:       []string{"The core concepts covered in the material", "Unrelated trivia", "Memorizing dates", "None of the above"},
			CorrectAnswer: 0,
			Explanation:   "The topic centers on the core concepts in the study material.",
			Points:        50,
		},
		{
			ID:            2,
			Type:          model.QuestionFillInBlank,
			Question:      fmt.Sprintf("Complete this sentence: the key to mastering %s is ______.", topicTitle),
			CorrectAnswer: "understanding",
			Explanation:   "Understanding, not memorization, is what the quiz rewards.",
			Points:        50,
		},
	}
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
