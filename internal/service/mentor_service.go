package service

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"kumba_backend/internal/model"
	"kumba_backend/internal/repository"
	"kumba_backend/pkg/logger"

	"go.uber.org/zap"
)

type mentorChatter interface {
	MentorChat(question, progressContext string, lang model.Language) (string, error)
}

// MentorQuotes is the fallback quote table, keyed by language.
type MentorQuotes map[model.Language][]string

// DefaultMentorQuotes is the stock table wired in at startup.
func DefaultMentorQuotes() MentorQuotes {
	return MentorQuotes{
		model.LanguageEnglish: {
			"The expert in anything was once a beginner. Keep learning, step by step.",
			"Education is the most powerful weapon which you can use to change the world. - Nelson Mandela",
			"If you want to go fast, go alone. If you want to go far, go together. - African Proverb",
			"However far the stream flows, it never forgets its source. - African Proverb",
			"Wisdom is like a baobab tree; no one individual can embrace it. - African Proverb",
			"The best time to plant a tree was 20 years ago. The second best time is now. - African Proverb",
			"Smooth seas do not make skillful sailors. - African Proverb",
		},
		model.LanguageFrench: {
			"L'expert en quoi que ce soit était autrefois un débutant. Continuez à apprendre, étape par étape.",
			"L'éducation est l'arme la plus puissante que vous puissiez utiliser pour changer le monde. - Nelson Mandela",
			"Si tu veux aller vite, va seul. Si tu veux aller loin, allons ensemble. - Proverbe africain",
			"Aussi loin que coule le ruisseau, il n'oublie jamais sa source. - Proverbe africain",
			"La sagesse est comme un baobab ; aucun individu ne peut l'embrasser. - Proverbe africain",
			"Le meilleur moment pour planter un arbre était il y a 20 ans. Le deuxième meilleur moment est maintenant. - Proverbe africain",
			"Les mers calmes ne font pas de marins habiles. - Proverbe africain",
		},
	}
}

// MentorService answers free-form student questions with the user's progress
// as context. The AI is best-effort; on failure the student gets a rotating
// quote instead of an error.
type MentorService struct {
	PlanRepo     *repository.PlanRepository
	ProgressRepo *repository.ProgressRepository
	AI           mentorChatter
	quotes       MentorQuotes
}

func NewMentorService(
	planRepo *repository.PlanRepository,
	progressRepo *repository.ProgressRepository,
	ai mentorChatter,
	quotes MentorQuotes,
) *MentorService {
	if len(quotes) == 0 {
		quotes = DefaultMentorQuotes()
	}
	return &MentorService{
		PlanRepo:     planRepo,
		ProgressRepo: progressRepo,
		AI:           ai,
		quotes:       quotes,
	}
}

type MentorReply struct {
	Reply    string `json:"reply"`
	FromAI   bool   `json:"fromAi"`
	Language string `json:"language"`
}

func (s *MentorService) Chat(userID, question string, lang model.Language) (*MentorReply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question is required")
	}

	context := s.progressContext(userID)
	answer, err := s.AI.MentorChat(question, context, lang)
	if err != nil || strings.TrimSpace(answer) == "" {
		logger.Log.Warn("mentor chat failed, using fallback quote",
			zap.String("userId", userID), zap.Error(err))
		return &MentorReply{
			Reply:    s.fallbackQuote(lang),
			FromAI:   false,
			Language: string(lang),
		}, nil
	}
	return &MentorReply{Reply: answer, FromAI: true, Language: string(lang)}, nil
}

// progressContext summarizes the user's standing for the mentor prompt. A
// read failure degrades to an empty summary rather than blocking the chat.
func (s *MentorService) progressContext(userID string) string {
	summary := map[string]interface{}{}

	if plans, err := s.PlanRepo.ListByUser(userID); err == nil {
		active := 0
		for _, plan := range plans {
			if plan.Status == model.PlanActive {
				active++
			}
		}
		summary["totalPlans"] = len(plans)
		summary["activePlans"] = active
	}
	if rows, err := s.ProgressRepo.ListByUser(userID); err == nil {
		completed, timeSpent := 0, 0
		for _, row := range rows {
			timeSpent += row.TimeSpent
			if row.Status == model.ProgressCompleted {
				completed++
			}
		}
		summary["completedTopics"] = completed
		summary["totalStudyMinutes"] = timeSpent
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return "{}"
	}
	return string(payload)
}

func (s *MentorService) fallbackQuote(lang model.Language) string {
	quotes := s.quotes[lang]
	if len(quotes) == 0 {
		quotes = s.quotes[model.LanguageEnglish]
	}
	if len(quotes) == 0 {
		return "Keep going. Every day of study counts."
	}
	return quotes[time.Now().UTC().YearDay()%len(quotes)]
}
