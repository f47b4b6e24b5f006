package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kumba_backend/internal/config"
	"kumba_backend/internal/model"
)

// AIService talks to an OpenAI-compatible chat completion endpoint. It is
// the only place in the codebase that knows the upstream wire format.
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// RoadmapDay is one day of a generated roadmap, as returned by the model.
type RoadmapDay struct {
	DayIndex      int      `json:"dayIndex"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Goals         []string `json:"goals"`
	TimeEstimate  int      `json:"timeEstimate"`
	Prerequisites []string `json:"prerequisites"`
	KeyPoints     []string `json:"keyPoints"`
}

type GeneratedRoadmap struct {
	Roadmap []RoadmapDay `json:"roadmap"`
}

type GeneratedQuiz struct {
	Quiz struct {
		Title        string               `json:"title"`
		Description  string               `json:"description"`
		PassingScore int                  `json:"passingScore"`
		Questions    []model.QuizQuestion `json:"questions"`
	} `json:"quiz"`
}

// Chat issues a single non-streaming completion.
func (s *AIService) Chat(system, prompt string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

// GenerateRoadmap asks the model for a structured day-by-day plan over the
// extracted material text. The caller validates shape and falls back on
// failure; this method only transports and parses.
func (s *AIService) GenerateRoadmap(content string, days int, lang model.Language) (*GeneratedRoadmap, error) {
	raw, err := s.Chat(
		"You are Kumba.AI, a strict but supportive AI tutor. Always respond in valid JSON format.",
		roadmapPrompt(days, lang)+"\n\n"+content,
	)
	if err != nil {
		return nil, err
	}

	var roadmap GeneratedRoadmap
	if err := json.Unmarshal([]byte(extractJSON(raw)), &roadmap); err != nil {
		return nil, fmt.Errorf("malformed roadmap response: %w", err)
	}
	return &roadmap, nil
}

// GenerateQuiz asks the model for a mastery quiz over one topic's content.
func (s *AIService) GenerateQuiz(topicContent string, lang model.Language) (*GeneratedQuiz, error) {
	raw, err := s.Chat(
		"You are Kumba.AI, creating educational quizzes. Always respond in valid JSON format.",
		quizPrompt(lang)+"\n\n"+topicContent,
	)
	if err != nil {
		return nil, err
	}

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(extractJSON(raw)), &quiz); err != nil {
		return nil, fmt.Errorf("malformed quiz response: %w", err)
	}
	return &quiz, nil
}

// MentorChat answers a student question in the strict-tutor voice with the
// student's progress summary as context.
func (s *AIService) MentorChat(question, progressContext string, lang model.Language) (string, error) {
	prompt := strings.NewReplacer(
		"{progress}", progressContext,
		"{question}", question,
	).Replace(mentorPrompt(lang))
	return s.Chat(
		"You are Kumba.AI, a strict but caring mentor. Maintain discipline while being supportive.",
		prompt,
	)
}

// extractJSON trims markdown fences and any prose around the outermost JSON
// object. Models wrap JSON in ```json blocks often enough to matter.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func roadmapPrompt(days int, lang model.Language) string {
	if lang == model.LanguageFrench {
		return fmt.Sprintf(`Vous êtes Kumba.AI, un tuteur IA strict mais bienveillant. Analysez le matériel d'apprentissage fourni et créez une feuille de route d'apprentissage structurée de %d jours.

IMPORTANT: Vous devez faire respecter la discipline et l'apprentissage séquentiel. Aucun raccourci autorisé.

Pour le contenu donné, créez exactement %d sujets, des concepts de base vers les applications avancées puis la maîtrise.

Pour chaque jour, fournissez:
1. Titre du sujet (clair et spécifique)
2. Objectifs d'apprentissage (3-5 objectifs spécifiques)
3. Concepts clés à maîtriser
4. Estimation du temps en minutes
5. Prérequis des jours précédents

Répondez au format JSON:
{
  "roadmap": [
    {
      "dayIndex": 1,
      "title": "Titre du sujet",
      "description": "Ce que les étudiants apprendront",
      "goals": ["Objectif 1", "Objectif 2", "Objectif 3"],
      "timeEstimate": 120,
      "prerequisites": [],
      "keyPoints": ["Point 1", "Point 2"]
    }
  ]
}

Contenu à analyser:`, days, days)
	}
	return fmt.Sprintf(`You are Kumba.AI, a strict but supportive AI tutor. Analyze the provided learning material and create a structured %d-day learning roadmap.

IMPORTANT: You must enforce discipline and sequential learning. No shortcuts allowed.

For the given content, create exactly %d topics, moving from foundation concepts through core concepts to advanced applications and mastery.

For each day, provide:
1. Topic title (clear and specific)
2. Learning goals (3-5 specific objectives)
3. Key concepts to master
4. Time estimate in minutes
5. Prerequisites from previous days

Respond in JSON format:
{
  "roadmap": [
    {
      "dayIndex": 1,
      "title": "Topic Title",
      "description": "What students will learn",
      "goals": ["Goal 1", "Goal 2", "Goal 3"],
      "timeEstimate": 120,
      "prerequisites": [],
      "keyPoints": ["Point 1", "Point 2"]
    }
  ]
}

Content to analyze:`, days, days)
}

func quizPrompt(lang model.Language) string {
	if lang == model.LanguageFrench {
		return `Vous êtes Kumba.AI, créant un quiz de maîtrise. Ce quiz doit tester la compréhension profonde, pas la mémorisation.

Créez un quiz complet pour le sujet avec ces exigences:
- 5-7 questions de difficulté variable
- Mélange de choix multiples, remplir les blancs et réponses courtes
- Les questions doivent tester l'application, pas seulement le rappel
- Fournir des explications détaillées pour chaque réponse
- Le score de passage devrait être de 70%

Types de questions:
1. Choix multiples (4 options, 1 correcte)
2. Remplir les blancs (tester les concepts clés)
3. Réponse courte (tester la compréhension et l'application)

Répondez au format JSON:
{
  "quiz": {
    "title": "Titre du quiz",
    "description": "Ce que ce quiz teste",
    "passingScore": 70,
    "questions": [
      {
        "id": 1,
        "type": "multiple_choice",
        "question": "Texte de la question",
        "options": ["A", "B", "C", "D"],
        "correctAnswer": 0,
        "explanation": "Pourquoi c'est correct",
        "points": 10
      }
    ]
  }
}

Sujet pour créer le quiz:`
	}
	return `You are Kumba.AI, creating a mastery quiz. This quiz must test deep understanding, not memorization.

Create a comprehensive quiz for the topic with these requirements:
- 5-7 questions of varying difficulty
- Mix of multiple choice, fill-in-the-blank, and short answer
- Questions must test application, not just recall
- Provide detailed explanations for each answer
- Passing score should be 70%

Question types:
1. Multiple choice (4 options, 1 correct)
2. Fill in the blank (test key concepts)
3. Short answer (test understanding and application)

Respond in JSON format:
{
  "quiz": {
    "title": "Quiz Title",
    "description": "What this quiz tests",
    "passingScore": 70,
    "questions": [
      {
        "id": 1,
        "type": "multiple_choice",
        "question": "Question text",
        "options": ["A", "B", "C", "D"],
        "correctAnswer": 0,
        "explanation": "Why this is correct",
        "points": 10
      }
    ]
  }
}

Topic to create quiz for:`
}

func mentorPrompt(lang model.Language) string {
	if lang == model.LanguageFrench {
		return `Vous êtes Kumba.AI, un mentor IA strict mais bienveillant. Vous faites respecter la discipline et l'apprentissage séquentiel.

RÈGLES:
1. Si un étudiant pose une question sur un sujet qu'il n'a pas débloqué, redirigez-le fermement pour compléter les prérequis
2. Encouragez toujours la persévérance et le travail acharné
3. Soyez bienveillant mais maintenez des standards élevés
4. Utilisez un langage encourageant mais ferme

Progrès actuel de l'étudiant: {progress}
Question de l'étudiant: {question}

Répondez comme Kumba.AI le ferait - strict mais bienveillant, toujours en appliquant le chemin d'apprentissage.`
	}
	return `You are Kumba.AI, a strict but caring AI mentor. You enforce discipline and sequential learning.

RULES:
1. If a student asks about a topic they haven't unlocked, firmly redirect them to complete prerequisites
2. Always encourage persistence and hard work
3. Be supportive but maintain high standards
4. Use encouraging but firm language

Student's current progress: {progress}
Student's question: {question}

Respond as Kumba.AI would - strict but supportive, always enforcing the learning path.`
}
