package service

import (
	"testing"

	"kumba_backend/internal/model"
	"kumba_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatuses(t *testing.T) {
	// First two topics completed in a five topic plan.
	completed := []bool{true, true, false, false, false}

	tests := []struct {
		mode model.LearningMode
		want []model.TopicStatus
	}{
		{model.ModeStrict, []model.TopicStatus{
			model.TopicCompleted, model.TopicCompleted,
			model.TopicUnlocked, model.TopicLocked, model.TopicLocked,
		}},
		{model.ModeFlexible, []model.TopicStatus{
			model.TopicCompleted, model.TopicCompleted,
			model.TopicUnlocked, model.TopicUnlocked, model.TopicUnlocked,
		}},
		{model.ModeExamPrep, []model.TopicStatus{
			model.TopicCompleted, model.TopicCompleted,
			model.TopicUnlocked, model.TopicUnlocked, model.TopicLocked,
		}},
		{model.ModeReview, []model.TopicStatus{
			model.TopicCompleted, model.TopicCompleted,
			model.TopicLocked, model.TopicLocked, model.TopicLocked,
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.want, deriveStatuses(tt.mode, completed))
		})
	}
}

func TestDeriveStatusesStrictGap(t *testing.T) {
	// A completed topic in the middle re-opens the one right after it.
	completed := []bool{true, false, true, false}
	got := deriveStatuses(model.ModeStrict, completed)
	assert.Equal(t, []model.TopicStatus{
		model.TopicCompleted, model.TopicUnlocked,
		model.TopicCompleted, model.TopicUnlocked,
	}, got)
}

func TestApplyModePersistsStatusesAndSettings(t *testing.T) {
	env := newTestEnv(t)
	plan, topics := env.seedPlan(t, testUser, 4, nil)

	_, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 10, nil, model.LanguageEnglish)
	require.NoError(t, err)

	result, err := env.modeSvc.ApplyMode(testUser, plan.ID, model.ModeFlexible, nil, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, model.ModeFlexible, result.Mode)
	assert.False(t, result.RequireQuizPass)
	assert.Equal(t, 50, result.MinimumScore)
	assert.True(t, result.AllowSkipping)
	assert.Equal(t, 4, result.UnlockedTopics)
	assert.Equal(t, 0, result.LockedTopics)
	assert.NotEmpty(t, result.Message)

	reloaded, err := env.plans.FindByID(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ModeFlexible, reloaded.Mode)
	assert.False(t, reloaded.RequireQuizPass)
	assert.Equal(t, 50, reloaded.MinimumScore)

	for _, topic := range topics[1:] {
		fresh, err := env.topics.FindByID(topic.ID)
		require.NoError(t, err)
		assert.Equal(t, model.TopicUnlocked, fresh.Status)
	}
}

func TestApplyModeKeepsCompletedTopics(t *testing.T) {
	env := newTestEnv(t)
	plan, topics := env.seedPlan(t, testUser, 3, nil)

	_, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 10, nil, model.LanguageEnglish)
	require.NoError(t, err)

	_, err = env.modeSvc.ApplyMode(testUser, plan.ID, model.ModeReview, nil, model.LanguageEnglish)
	require.NoError(t, err)

	first, err := env.topics.FindByID(topics[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.TopicCompleted, first.Status)

	second, err := env.topics.FindByID(topics[1].ID)
	require.NoError(t, err)
	assert.Equal(t, model.TopicLocked, second.Status)
}

func TestApplyModeSettingsOverride(t *testing.T) {
	env := newTestEnv(t)
	plan, _ := env.seedPlan(t, testUser, 2, nil)

	minimum := 85
	noQuiz := false
	result, err := env.modeSvc.ApplyMode(testUser, plan.ID, model.ModeStrict, &ModeSettings{
		MinimumScore:    &minimum,
		RequireQuizPass: &noQuiz,
	}, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, 85, result.MinimumScore)
	assert.False(t, result.RequireQuizPass)
}

func TestApplyModeIgnoresOutOfRangeScore(t *testing.T) {
	env := newTestEnv(t)
	plan, _ := env.seedPlan(t, testUser, 2, nil)

	minimum := 150
	result, err := env.modeSvc.ApplyMode(testUser, plan.ID, model.ModeStrict, &ModeSettings{
		MinimumScore: &minimum,
	}, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, 70, result.MinimumScore)
}

func TestApplyModeUnknownMode(t *testing.T) {
	env := newTestEnv(t)
	plan, _ := env.seedPlan(t, testUser, 2, nil)

	_, err := env.modeSvc.ApplyMode(testUser, plan.ID, model.LearningMode("turbo"), nil, model.LanguageEnglish)
	assert.Error(t, err)
}

func TestApplyModeForeignPlan(t *testing.T) {
	env := newTestEnv(t)
	plan, _ := env.seedPlan(t, "other-user", 2, nil)

	_, err := env.modeSvc.ApplyMode(testUser, plan.ID, model.ModeStrict, nil, model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrPlanNotFound)
}

func TestGetModesCatalog(t *testing.T) {
	env := newTestEnv(t)
	plan, _ := env.seedPlan(t, testUser, 2, nil)

	catalog, err := env.modeSvc.GetModes(testUser, plan.ID, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, model.ModeStrict, catalog.CurrentMode)
	require.Len(t, catalog.AvailableModes, 4)
	assert.Equal(t, model.ModeStrict, catalog.AvailableModes[0].ID)
	assert.True(t, catalog.AvailableModes[0].Recommended)

	_, err = env.modeSvc.ApplyMode(testUser, plan.ID, model.ModeExamPrep, nil, model.LanguageEnglish)
	require.NoError(t, err)

	catalog, err = env.modeSvc.GetModes(testUser, plan.ID, model.LanguageFrench)
	require.NoError(t, err)
	assert.Equal(t, model.ModeExamPrep, catalog.CurrentMode)
	assert.Equal(t, "Mode Strict", catalog.AvailableModes[0].Name)
}
