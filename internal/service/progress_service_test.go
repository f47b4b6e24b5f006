package service

import (
	"testing"

	"kumba_backend/internal/model"
	"kumba_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

func TestCheckAccessDayOneAlwaysAccessible(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 3, nil)

	decision, err := env.progressSvc.CheckAccess(testUser, topics[0].ID, model.LanguageEnglish)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
	assert.True(t, decision.PrerequisitesMet)
	assert.False(t, decision.IsLocked)
}

func TestCheckAccessBlockedByIncompletePrevious(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 3, nil)

	decision, err := env.progressSvc.CheckAccess(testUser, topics[1].ID, model.LanguageEnglish)
	require.NoError(t, err)
	assert.False(t, decision.CanAccess)
	assert.True(t, decision.IsLocked)
	assert.Contains(t, decision.Message, "Day 1")
}

func TestCheckAccessBlockedByUnpassedQuiz(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, map[int][]model.QuizQuestion{1: fourQuestions()})

	_, err := env.progress.UpsertCompleted(nil, testUser, topics[0].ID, topics[0].PlanID, 30, 100)
	require.NoError(t, err)

	decision, err := env.progressSvc.CheckAccess(testUser, topics[1].ID, model.LanguageEnglish)
	require.NoError(t, err)
	assert.False(t, decision.CanAccess)
	assert.Contains(t, decision.Message, "pass the quiz")
}

func TestCheckAccessFrenchMessage(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, nil)

	decision, err := env.progressSvc.CheckAccess(testUser, topics[1].ID, model.LanguageFrench)
	require.NoError(t, err)
	assert.Contains(t, decision.Message, "Jour 1")
}

func TestCheckAccessOpenAfterPrerequisites(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, map[int][]model.QuizQuestion{1: fourQuestions()})

	_, err := env.progress.UpsertCompleted(nil, testUser, topics[0].ID, topics[0].PlanID, 30, 100)
	require.NoError(t, err)

	quiz, err := env.quizzes.FindByTopic(topics[0].ID)
	require.NoError(t, err)
	require.NoError(t, env.quizzes.CreateResult(nil, &model.QuizResult{
		UserID: testUser, QuizID: quiz.ID, Score: 100, Passed: true,
	}))

	decision, err := env.progressSvc.CheckAccess(testUser, topics[1].ID, model.LanguageEnglish)
	require.NoError(t, err)
	assert.True(t, decision.CanAccess)
}

func TestCheckAccessIdempotent(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 3, nil)

	first, err := env.progressSvc.CheckAccess(testUser, topics[1].ID, model.LanguageEnglish)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := env.progressSvc.CheckAccess(testUser, topics[1].ID, model.LanguageEnglish)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestStartTopicLocked(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 3, nil)

	_, err := env.progressSvc.StartTopic(testUser, topics[2].ID, model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrTopicLocked)
}

func TestStartTopicRecordsInProgress(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, nil)

	progress, err := env.progressSvc.StartTopic(testUser, topics[0].ID, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressInProgress, progress.Status)
}

func TestStartTopicDoesNotRevertCompletion(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, nil)

	_, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 10, nil, model.LanguageEnglish)
	require.NoError(t, err)

	progress, err := env.progressSvc.StartTopic(testUser, topics[0].ID, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, progress.Status)
}

func TestCompleteTopicRequiresQuizPass(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, map[int][]model.QuizQuestion{1: fourQuestions()})

	_, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 30, nil, model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrQuizNotPassed)
}

func TestCompleteTopicQuizScoreOverridesMastery(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, map[int][]model.QuizQuestion{1: fourQuestions()})

	quiz, err := env.quizzes.FindByTopic(topics[0].ID)
	require.NoError(t, err)
	require.NoError(t, env.quizzes.CreateResult(nil, &model.QuizResult{
		UserID: testUser, QuizID: quiz.ID, Score: 75, Passed: true,
	}))

	caller := 95
	result, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 30, &caller, model.LanguageEnglish)
	require.NoError(t, err)
	require.NotNil(t, result.Progress.MasteryScore)
	assert.Equal(t, 75, *result.Progress.MasteryScore)
}

func TestCompleteTopicUnlocksNextDay(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 3, nil)

	result, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 45, nil, model.LanguageEnglish)
	require.NoError(t, err)
	assert.True(t, result.NextUnlocked)
	require.NotNil(t, result.NextTopic)
	assert.Equal(t, 2, result.NextTopic.DayIndex)
	assert.False(t, result.PlanCompleted)

	next, err := env.topics.FindByID(topics[1].ID)
	require.NoError(t, err)
	assert.Equal(t, model.TopicUnlocked, next.Status)

	third, err := env.topics.FindByID(topics[2].ID)
	require.NoError(t, err)
	assert.Equal(t, model.TopicLocked, third.Status)
}

func TestCompleteTopicRejectsLocked(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 3, nil)

	_, err := env.progressSvc.CompleteTopic(testUser, topics[2].ID, 10, nil, model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrTopicLocked)
}

func TestCompleteTopicRejectsForeignPlan(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, "other-user", 2, nil)

	_, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 10, nil, model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrPlanNotOwned)
}

func TestCompleteTopicRejectsNegativeTime(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, nil)

	_, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, -5, nil, model.LanguageEnglish)
	assert.Error(t, err)
}

func TestCompleteTopicAccumulatesTime(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, nil)

	first, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 20, nil, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, 20, first.Progress.TimeSpent)

	second, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 15, nil, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, 35, second.Progress.TimeSpent)
	assert.Equal(t, model.ProgressCompleted, second.Progress.Status)
}

func TestCompleteLastTopicCompletesPlan(t *testing.T) {
	env := newTestEnv(t)
	plan, topics := env.seedPlan(t, testUser, 2, nil)

	_, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 10, nil, model.LanguageEnglish)
	require.NoError(t, err)

	result, err := env.progressSvc.CompleteTopic(testUser, topics[1].ID, 10, nil, model.LanguageEnglish)
	require.NoError(t, err)
	assert.True(t, result.PlanCompleted)
	assert.Nil(t, result.NextTopic)

	reloaded, err := env.plans.FindByID(plan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanCompleted, reloaded.Status)
}

func TestAddTimeSpent(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, nil)

	progress, err := env.progressSvc.AddTimeSpent(testUser, topics[0].ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, progress.TimeSpent)

	progress, err = env.progressSvc.AddTimeSpent(testUser, topics[0].ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 35, progress.TimeSpent)

	_, err = env.progressSvc.AddTimeSpent(testUser, topics[0].ID, 0)
	assert.Error(t, err)
}

func TestGetPlanProgressRollup(t *testing.T) {
	env := newTestEnv(t)
	plan, topics := env.seedPlan(t, testUser, 3, nil)

	_, err := env.progressSvc.CompleteTopic(testUser, topics[0].ID, 20, nil, model.LanguageEnglish)
	require.NoError(t, err)
	_, err = env.progressSvc.CompleteTopic(testUser, topics[1].ID, 40, nil, model.LanguageEnglish)
	require.NoError(t, err)

	rollup, err := env.progressSvc.GetPlanProgress(testUser, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, rollup.TotalTopics)
	assert.Equal(t, 2, rollup.CompletedTopics)
	assert.Equal(t, 67, rollup.ProgressPercentage)
	assert.Equal(t, 60, rollup.TotalTimeSpent)
	assert.Len(t, rollup.Topics, 3)
}

func TestGetPlanProgressForeignPlan(t *testing.T) {
	env := newTestEnv(t)
	plan, _ := env.seedPlan(t, "other-user", 2, nil)

	_, err := env.progressSvc.GetPlanProgress(testUser, plan.ID)
	assert.ErrorIs(t, err, util.ErrPlanNotOwned)
}
