package service

import (
	"errors"

	"kumba_backend/internal/model"
	"kumba_backend/internal/repository"
	"kumba_backend/internal/util"

	"gorm.io/gorm"
)

// ModeService bulk-applies a named unlock policy to every topic in a plan.
type ModeService struct {
	PlanRepo     *repository.PlanRepository
	TopicRepo    *repository.TopicRepository
	ProgressRepo *repository.ProgressRepository
	DB           *gorm.DB
}

func NewModeService(
	planRepo *repository.PlanRepository,
	topicRepo *repository.TopicRepository,
	progressRepo *repository.ProgressRepository,
	db *gorm.DB,
) *ModeService {
	return &ModeService{
		PlanRepo:     planRepo,
		TopicRepo:    topicRepo,
		ProgressRepo: progressRepo,
		DB:           db,
	}
}

// ModeSettings are advisory gating parameters stored on the plan. The quiz's
// own passing score stays authoritative for pass/fail.
type ModeSettings struct {
	RequireQuizPass *bool `json:"requireQuizPass,omitempty"`
	MinimumScore    *int  `json:"minimumScore,omitempty"`
	AllowSkipping   *bool `json:"allowSkipping,omitempty"`
}

type ModeResult struct {
	Mode            model.LearningMode `json:"mode"`
	RequireQuizPass bool               `json:"requireQuizPass"`
	MinimumScore    int                `json:"minimumScore"`
	AllowSkipping   bool               `json:"allowSkipping"`
	UnlockedTopics  int                `json:"unlockedTopics"`
	LockedTopics    int                `json:"lockedTopics"`
	Message         string             `json:"message"`
}

type ModeOption struct {
	ID          model.LearningMode `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Features    []string           `json:"features"`
	Recommended bool               `json:"recommended"`
}

type ModeCatalog struct {
	CurrentMode    model.LearningMode `json:"currentMode"`
	AvailableModes []ModeOption       `json:"availableModes"`
	Recommendation string             `json:"recommendation"`
}

type modePreset struct {
	requireQuizPass bool
	minimumScore    int
	allowSkipping   bool
}

var modePresets = map[model.LearningMode]modePreset{
	model.ModeStrict:   {requireQuizPass: true, minimumScore: 70},
	model.ModeFlexible: {requireQuizPass: false, minimumScore: 50, allowSkipping: true},
	model.ModeExamPrep: {requireQuizPass: true, minimumScore: 80},
	model.ModeReview:   {requireQuizPass: false, minimumScore: 70},
}

// ApplyMode recomputes every topic's lock state under the chosen policy and
// stores the mode on the plan. All topic updates land in one transaction so
// the plan is never observed half-switched.
func (s *ModeService) ApplyMode(userID, planID string, mode model.LearningMode, settings *ModeSettings, lang model.Language) (*ModeResult, error) {
	if !mode.Valid() {
		return nil, errors.New("unknown learning mode")
	}

	plan, err := s.PlanRepo.FindByIDAndUser(planID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}

	topics, err := s.TopicRepo.FindByPlanOrdered(planID)
	if err != nil {
		return nil, err
	}
	progressByTopic, err := s.ProgressRepo.MapByUserAndPlan(userID, planID)
	if err != nil {
		return nil, err
	}

	completed := make([]bool, len(topics))
	for i, topic := range topics {
		if p, ok := progressByTopic[topic.ID]; ok {
			completed[i] = p.Status == model.ProgressCompleted
		}
	}

	statuses := deriveStatuses(mode, completed)

	preset := modePresets[mode]
	requireQuizPass := preset.requireQuizPass
	minimumScore := preset.minimumScore
	allowSkipping := preset.allowSkipping
	if settings != nil {
		if settings.RequireQuizPass != nil {
			requireQuizPass = *settings.RequireQuizPass
		}
		if settings.MinimumScore != nil && *settings.MinimumScore >= 0 && *settings.MinimumScore <= 100 {
			minimumScore = *settings.MinimumScore
		}
		if settings.AllowSkipping != nil {
			allowSkipping = *settings.AllowSkipping
		}
	}

	result := &ModeResult{
		Mode:            mode,
		RequireQuizPass: requireQuizPass,
		MinimumScore:    minimumScore,
		AllowSkipping:   allowSkipping,
		Message:         modeMessage(mode, lang),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for i, topic := range topics {
			if topic.Status != statuses[i] {
				if err := s.TopicRepo.UpdateStatus(tx, topic.ID, statuses[i]); err != nil {
					return err
				}
			}
			if statuses[i] == model.TopicLocked {
				result.LockedTopics++
			} else {
				result.UnlockedTopics++
			}
		}
		return s.PlanRepo.UpdateGating(tx, plan.ID, mode, requireQuizPass, minimumScore)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// deriveStatuses maps completion state to topic statuses under a policy.
// Topics the user already completed always stay in the completed status.
func deriveStatuses(mode model.LearningMode, completed []bool) []model.TopicStatus {
	statuses := make([]model.TopicStatus, len(completed))
	pendingSeen := 0
	for i := range completed {
		if completed[i] {
			statuses[i] = model.TopicCompleted
			continue
		}
		pendingSeen++
		switch mode {
		case model.ModeStrict:
			if i == 0 || completed[i-1] {
				statuses[i] = model.TopicUnlocked
			} else {
				statuses[i] = model.TopicLocked
			}
		case model.ModeFlexible:
			statuses[i] = model.TopicUnlocked
		case model.ModeExamPrep:
			// completed topics plus the next two pending ones
			if pendingSeen <= 2 {
				statuses[i] = model.TopicUnlocked
			} else {
				statuses[i] = model.TopicLocked
			}
		case model.ModeReview:
			statuses[i] = model.TopicLocked
		}
	}
	return statuses
}

// GetModes lists the available presets with the plan's current mode.
func (s *ModeService) GetModes(userID, planID string, lang model.Language) (*ModeCatalog, error) {
	plan, err := s.PlanRepo.FindByIDAndUser(planID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}

	current := plan.Mode
	if !current.Valid() {
		current = model.ModeStrict
	}

	fr := lang == model.LanguageFrench
	pick := func(en, frMsg string) string {
		if fr {
			return frMsg
		}
		return en
	}

	return &ModeCatalog{
		CurrentMode: current,
		AvailableModes: []ModeOption{
			{
				ID:          model.ModeStrict,
				Name:        pick("Strict Mode", "Mode Strict"),
				Description: pick("Sequential learning required. Each topic must be completed before moving to the next.", "Apprentissage séquentiel obligatoire. Chaque sujet doit être complété avant de passer au suivant."),
				Features: []string{
					pick("Sequential progression", "Progression séquentielle"),
					pick("Mandatory quizzes", "Quiz obligatoires"),
					pick("Minimum score required", "Score minimum requis"),
				},
				Recommended: true,
			},
			{
				ID:          model.ModeFlexible,
				Name:        pick("Flexible Mode", "Mode Flexible"),
				Description: pick("Allows skipping topics and returning later. Great for review.", "Permet de sauter des sujets et de revenir plus tard. Idéal pour la révision."),
				Features: []string{
					pick("Topic skipping allowed", "Saut de sujets autorisé"),
					pick("Optional quizzes", "Quiz optionnels"),
					pick("Free progression", "Progression libre"),
				},
			},
			{
				ID:          model.ModeExamPrep,
				Name:        pick("Exam Preparation", "Préparation Examen"),
				Description: pick("Intensive mode with frequent quizzes and targeted reviews.", "Mode intensif avec quiz fréquents et révisions ciblées."),
				Features: []string{
					pick("Frequent quizzes", "Quiz fréquents"),
					pick("Automatic reviews", "Révisions automatiques"),
					pick("Performance tracking", "Suivi de performance"),
				},
			},
			{
				ID:          model.ModeReview,
				Name:        pick("Review Mode", "Mode Révision"),
				Description: pick("Focus on previously studied topics with review quizzes.", "Focus sur les sujets déjà étudiés avec des quiz de révision."),
				Features: []string{
					pick("Targeted review", "Révision ciblée"),
					pick("Recall quizzes", "Quiz de rappel"),
					pick("Reinforcement", "Renforcement"),
				},
			},
		},
		Recommendation: pick(
			"Strict mode will help you build strong foundations.",
			"Le mode strict vous aidera à construire des bases solides.",
		),
	}, nil
}

func modeMessage(mode model.LearningMode, lang model.Language) string {
	fr := lang == model.LanguageFrench
	switch mode {
	case model.ModeStrict:
		if fr {
			return "Mode strict activé. Vous devez compléter les sujets dans l'ordre et réussir tous les quiz."
		}
		return "Strict mode activated. You must complete topics in order and pass all quizzes."
	case model.ModeFlexible:
		if fr {
			return "Mode flexible activé. Vous pouvez sauter des sujets et y revenir plus tard."
		}
		return "Flexible mode activated. You can skip topics and return to them later."
	case model.ModeExamPrep:
		if fr {
			return "Mode préparation examen activé. Étude intensive avec évaluations fréquentes."
		}
		return "Exam preparation mode activated. Intensive study with frequent assessments."
	case model.ModeReview:
		if fr {
			return "Mode révision activé. Focus sur le renforcement du matériel déjà appris."
		}
		return "Review mode activated. Focus on reinforcing previously learned material."
	}
	return ""
}
