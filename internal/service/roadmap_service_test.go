package service

import (
	"errors"
	"fmt"
	"testing"

	"kumba_backend/internal/config"
	"kumba_backend/internal/model"
	"kumba_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator scripts the AI client for roadmap tests.
type fakeGenerator struct {
	roadmap    *GeneratedRoadmap
	roadmapErr error
	quiz       *GeneratedQuiz
	quizErr    error

	gotDays int
}

func (f *fakeGenerator) GenerateRoadmap(content string, days int, lang model.Language) (*GeneratedRoadmap, error) {
	f.gotDays = days
	return f.roadmap, f.roadmapErr
}

func (f *fakeGenerator) GenerateQuiz(topicContent string, lang model.Language) (*GeneratedQuiz, error) {
	return f.quiz, f.quizErr
}

func newRoadmapEnv(t *testing.T, fake *fakeGenerator) (*testEnv, *RoadmapService) {
	env := newTestEnv(t)
	svc := NewRoadmapService(env.materials, env.plans, fake, env.db, config.LearningConfig{
		DefaultPlanDays: 7,
		MinPlanDays:     3,
		MaxPlanDays:     14,
		PassingScore:    70,
	})
	return env, svc
}

func seedMaterial(t *testing.T, env *testEnv, status model.MaterialStatus, text string) *model.LearningMaterial {
	t.Helper()
	material := &model.LearningMaterial{
		Title:         "Cell Biology",
		FileType:      "pdf",
		ExtractedText: text,
		Status:        status,
		UserID:        testUser,
	}
	require.NoError(t, env.materials.Create(material))
	return material
}

func scriptedRoadmap(days int) *GeneratedRoadmap {
	out := &GeneratedRoadmap{}
	for i := 0; i < days; i++ {
		out.Roadmap = append(out.Roadmap, RoadmapDay{
			DayIndex:     i + 1,
			Title:        fmt.Sprintf("Scripted Day %d", i+1),
			Description:  "scripted",
			Goals:        []string{"goal"},
			TimeEstimate: 45,
		})
	}
	return out
}

func TestGeneratePlanMaterialNotFound(t *testing.T) {
	_, svc := newRoadmapEnv(t, &fakeGenerator{})
	_, err := svc.GeneratePlan(testUser, "missing", 7, model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrMaterialNotFound)
}

func TestGeneratePlanMaterialNotReady(t *testing.T) {
	env, svc := newRoadmapEnv(t, &fakeGenerator{})
	material := seedMaterial(t, env, model.MaterialProcessing, "")

	_, err := svc.GeneratePlan(testUser, material.ID, 7, model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrMaterialNotReady)
}

func TestGeneratePlanClampsDays(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{0, 7},  // default
		{1, 3},  // below minimum
		{30, 14}, // above maximum
		{10, 10},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("requested_%d", tt.requested), func(t *testing.T) {
			fake := &fakeGenerator{roadmapErr: errors.New("model unavailable"), quizErr: errors.New("model unavailable")}
			env, svc := newRoadmapEnv(t, fake)
			material := seedMaterial(t, env, model.MaterialCompleted, "chapter text")

			plan, err := svc.GeneratePlan(testUser, material.ID, tt.requested, model.LanguageEnglish)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.TotalDays)
			assert.Equal(t, tt.want, fake.gotDays)
			assert.Len(t, plan.Topics, tt.want)
		})
	}
}

func TestGeneratePlanFallsBackToTemplate(t *testing.T) {
	fake := &fakeGenerator{roadmapErr: errors.New("timeout"), quizErr: errors.New("timeout")}
	env, svc := newRoadmapEnv(t, fake)
	material := seedMaterial(t, env, model.MaterialCompleted, "chapter text")

	plan, err := svc.GeneratePlan(testUser, material.ID, 5, model.LanguageEnglish)
	require.NoError(t, err)
	require.Len(t, plan.Topics, 5)

	assert.Equal(t, model.ModeStrict, plan.Mode)
	assert.True(t, plan.RequireQuizPass)
	assert.Equal(t, 70, plan.MinimumScore)
	assert.Contains(t, plan.Title, "Cell Biology")

	for i, topic := range plan.Topics {
		assert.Equal(t, i+1, topic.DayIndex)
		assert.NotEmpty(t, topic.Title)
		wantStatus := model.TopicLocked
		if i == 0 {
			wantStatus = model.TopicUnlocked
		}
		assert.Equal(t, wantStatus, topic.Status)

		quiz, err := env.quizzes.FindByTopic(topic.ID)
		require.NoError(t, err)
		require.Len(t, quiz.Questions, 2)
		assert.Equal(t, 100, quiz.Questions[0].Points+quiz.Questions[1].Points)
	}
}

func TestGeneratePlanUsesScriptedRoadmap(t *testing.T) {
	scriptedQuiz := &GeneratedQuiz{}
	scriptedQuiz.Quiz.Title = "Scripted Quiz"
	scriptedQuiz.Quiz.PassingScore = 80
	scriptedQuiz.Quiz.Questions = []model.QuizQuestion{
		{Type: model.QuestionMultipleChoice, CorrectAnswer: 0, Points: 30},
		{Type: model.QuestionMultipleChoice, CorrectAnswer: 1, Points: 30},
		{Type: model.QuestionShortAnswer, CorrectAnswer: "mitochondria", Points: 40},
	}
	fake := &fakeGenerator{
		roadmap: scriptedRoadmap(4),
		quiz:    scriptedQuiz,
	}
	env, svc := newRoadmapEnv(t, fake)
	material := seedMaterial(t, env, model.MaterialCompleted, "chapter text")

	plan, err := svc.GeneratePlan(testUser, material.ID, 4, model.LanguageEnglish)
	require.NoError(t, err)
	require.Len(t, plan.Topics, 4)
	assert.Equal(t, "Scripted Day 1", plan.Topics[0].Title)

	quiz, err := env.quizzes.FindByTopic(plan.Topics[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Scripted Quiz", quiz.Title)
	assert.Equal(t, 80, quiz.PassingScore)
	require.Len(t, quiz.Questions, 3)
	total := 0
	for i, q := range quiz.Questions {
		assert.Equal(t, i+1, q.ID)
		total += q.Points
	}
	assert.Equal(t, 100, total)
}

func TestBuildRoadmapPadsShortOutput(t *testing.T) {
	fake := &fakeGenerator{roadmap: scriptedRoadmap(2)}
	env, svc := newRoadmapEnv(t, fake)
	material := seedMaterial(t, env, model.MaterialCompleted, "chapter text")

	roadmap := svc.buildRoadmap(material, 5, model.LanguageEnglish)
	require.Len(t, roadmap, 5)
	assert.Equal(t, "Scripted Day 1", roadmap[0].Title)
	for i, day := range roadmap {
		assert.Equal(t, i+1, day.DayIndex)
		assert.NotEmpty(t, day.Title)
		assert.Positive(t, day.TimeEstimate)
	}
}

func TestBuildRoadmapTruncatesLongOutput(t *testing.T) {
	fake := &fakeGenerator{roadmap: scriptedRoadmap(9)}
	env, svc := newRoadmapEnv(t, fake)
	material := seedMaterial(t, env, model.MaterialCompleted, "chapter text")

	roadmap := svc.buildRoadmap(material, 3, model.LanguageEnglish)
	require.Len(t, roadmap, 3)
	assert.Equal(t, 3, roadmap[2].DayIndex)
}

func TestNormalizePointsRescales(t *testing.T) {
	questions := []model.QuizQuestion{{Points: 20}, {Points: 20}}
	normalized := normalizePoints(questions)
	assert.Equal(t, 50, normalized[0].Points)
	assert.Equal(t, 50, normalized[1].Points)
}

func TestNormalizePointsRemainderToLast(t *testing.T) {
	questions := []model.QuizQuestion{{Points: 1}, {Points: 1}, {Points: 1}}
	normalized := normalizePoints(questions)
	total := 0
	for _, q := range normalized {
		total += q.Points
	}
	assert.Equal(t, 100, total)
	assert.Equal(t, 33, normalized[0].Points)
	assert.Equal(t, 34, normalized[2].Points)
}

func TestNormalizePointsZeroTotal(t *testing.T) {
	questions := []model.QuizQuestion{{Points: 0}, {Points: 0}, {Points: 0}}
	normalized := normalizePoints(questions)
	total := 0
	for _, q := range normalized {
		total += q.Points
	}
	assert.Equal(t, 100, total)
}

func TestNormalizePointsEmpty(t *testing.T) {
	assert.Empty(t, normalizePoints(nil))
}
