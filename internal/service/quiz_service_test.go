package service

import (
	"testing"

	"kumba_backend/internal/model"
	"kumba_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeQuizPartialCredit(t *testing.T) {
	score, graded := gradeQuiz(fourQuestions(), answersWithCorrect(3))
	assert.Equal(t, 75, score)
	require.Len(t, graded, 4)
	assert.True(t, graded[0].IsCorrect)
	assert.False(t, graded[3].IsCorrect)
}

func TestGradeQuizDeterministic(t *testing.T) {
	questions := fourQuestions()
	answers := answersWithCorrect(2)
	first, _ := gradeQuiz(questions, answers)
	second, _ := gradeQuiz(questions, answers)
	assert.Equal(t, first, second)
	assert.Equal(t, 50, first)
}

func TestGradeQuizMissingAnswersAreWrong(t *testing.T) {
	score, graded := gradeQuiz(fourQuestions(), []SubmittedAnswer{
		{QuestionID: 1, Answer: float64(0)},
	})
	assert.Equal(t, 25, score)
	assert.False(t, graded[1].IsCorrect)
	assert.Nil(t, graded[1].UserAnswer)
}

func TestGradeQuizZeroTotalPoints(t *testing.T) {
	questions := fourQuestions()
	for i := range questions {
		questions[i].Points = 0
	}
	score, _ := gradeQuiz(questions, answersWithCorrect(4))
	assert.Equal(t, 0, score)
}

func TestGradeQuizRoundsHalfUp(t *testing.T) {
	questions := []model.QuizQuestion{
		{ID: 1, Type: model.QuestionMultipleChoice, CorrectAnswer: 0, Points: 1},
		{ID: 2, Type: model.QuestionMultipleChoice, CorrectAnswer: 0, Points: 1},
		{ID: 3, Type: model.QuestionMultipleChoice, CorrectAnswer: 0, Points: 1},
	}
	score, _ := gradeQuiz(questions, []SubmittedAnswer{
		{QuestionID: 1, Answer: float64(0)},
		{QuestionID: 2, Answer: float64(0)},
	})
	// 2/3 is 66.67, rounded to 67.
	assert.Equal(t, 67, score)
}

func TestAnswersMatchTextNormalization(t *testing.T) {
	q := model.QuizQuestion{Type: model.QuestionShortAnswer, CorrectAnswer: "Photosynthesis"}
	assert.True(t, answersMatch(q, "  photosynthesis "))
	assert.False(t, answersMatch(q, "respiration"))
	assert.False(t, answersMatch(q, nil))
}

func TestAnswersMatchChoiceRepresentations(t *testing.T) {
	q := model.QuizQuestion{Type: model.QuestionMultipleChoice, CorrectAnswer: 2}
	// JSON decoding hands the service float64 or string indexes.
	assert.True(t, answersMatch(q, float64(2)))
	assert.True(t, answersMatch(q, "2"))
	assert.False(t, answersMatch(q, float64(1)))
	assert.False(t, answersMatch(q, "not a number"))
}

func TestGetQuizForTakingStripsAnswers(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, map[int][]model.QuizQuestion{1: fourQuestions()})

	quiz, err := env.quizzes.FindByTopic(topics[0].ID)
	require.NoError(t, err)

	view, err := env.quizSvc.GetQuizForTaking(testUser, quiz.ID)
	require.NoError(t, err)
	require.Len(t, view.Questions, 4)
	assert.Equal(t, 0, view.AttemptsUsed)
	assert.Equal(t, 3, view.AttemptsRemaining)
	assert.False(t, view.HasPassed)
	for _, q := range view.Questions {
		assert.NotEmpty(t, q.Question)
		assert.NotEmpty(t, q.Options)
	}
}

func TestGetQuizForTakingLockedTopic(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, map[int][]model.QuizQuestion{2: fourQuestions()})

	quiz, err := env.quizzes.FindByTopic(topics[1].ID)
	require.NoError(t, err)

	_, err = env.quizSvc.GetQuizForTaking(testUser, quiz.ID)
	assert.ErrorIs(t, err, util.ErrTopicLocked)
}

func TestSubmitQuizPassCompletesTopic(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, map[int][]model.QuizQuestion{1: fourQuestions()})

	quiz, err := env.quizzes.FindByTopic(topics[0].ID)
	require.NoError(t, err)

	result, err := env.quizSvc.SubmitQuiz(testUser, quiz.ID, answersWithCorrect(3), 12, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, 75, result.Score)
	assert.True(t, result.Passed)
	assert.True(t, result.TopicCompleted)
	assert.True(t, result.NextUnlocked)
	assert.Equal(t, 1, result.AttemptsUsed)
	assert.Equal(t, 2, result.AttemptsRemaining)

	progress, err := env.progress.FindByUserAndTopic(testUser, topics[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, progress.Status)
	require.NotNil(t, progress.MasteryScore)
	assert.Equal(t, 75, *progress.MasteryScore)
}

func TestSubmitQuizFailDoesNotComplete(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, map[int][]model.QuizQuestion{1: fourQuestions()})

	quiz, err := env.quizzes.FindByTopic(topics[0].ID)
	require.NoError(t, err)

	result, err := env.quizSvc.SubmitQuiz(testUser, quiz.ID, answersWithCorrect(2), 12, model.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.Passed)
	assert.False(t, result.TopicCompleted)

	_, err = env.progress.FindByUserAndTopic(testUser, topics[0].ID)
	assert.Error(t, err)

	second, err := env.topics.FindByID(topics[1].ID)
	require.NoError(t, err)
	assert.Equal(t, model.TopicLocked, second.Status)
}

func TestSubmitQuizAttemptCap(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, map[int][]model.QuizQuestion{1: fourQuestions()})

	quiz, err := env.quizzes.FindByTopic(topics[0].ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := env.quizSvc.SubmitQuiz(testUser, quiz.ID, answersWithCorrect(1), 5, model.LanguageEnglish)
		require.NoError(t, err)
		assert.Equal(t, i+1, result.AttemptsUsed)
	}

	_, err = env.quizSvc.SubmitQuiz(testUser, quiz.ID, answersWithCorrect(4), 5, model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrAttemptsExceeded)

	// The rejected attempt must not have been written.
	results, err := env.quizSvc.ListResults(testUser, quiz.ID)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSubmitQuizResultsAppendOnly(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 2, map[int][]model.QuizQuestion{1: fourQuestions()})

	quiz, err := env.quizzes.FindByTopic(topics[0].ID)
	require.NoError(t, err)

	_, err = env.quizSvc.SubmitQuiz(testUser, quiz.ID, answersWithCorrect(1), 5, model.LanguageEnglish)
	require.NoError(t, err)
	_, err = env.quizSvc.SubmitQuiz(testUser, quiz.ID, answersWithCorrect(2), 5, model.LanguageEnglish)
	require.NoError(t, err)

	results, err := env.quizSvc.ListResults(testUser, quiz.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, quiz.ID, r.QuizID)
		assert.Len(t, r.Answers, 4)
	}
}

func TestSubmitQuizLockedTopic(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, testUser, 3, map[int][]model.QuizQuestion{3: fourQuestions()})

	quiz, err := env.quizzes.FindByTopic(topics[2].ID)
	require.NoError(t, err)

	_, err = env.quizSvc.SubmitQuiz(testUser, quiz.ID, answersWithCorrect(4), 5, model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrTopicLocked)
}

func TestSubmitQuizOnModeUnlockedTopic(t *testing.T) {
	// Flexible mode unlocks later days without their predecessors being
	// done; the quiz on such a day must be takeable, and passing it must
	// complete the topic.
	env := newTestEnv(t)
	plan, topics := env.seedPlan(t, testUser, 3, map[int][]model.QuizQuestion{3: fourQuestions()})

	_, err := env.modeSvc.ApplyMode(testUser, plan.ID, model.ModeFlexible, nil, model.LanguageEnglish)
	require.NoError(t, err)

	quiz, err := env.quizzes.FindByTopic(topics[2].ID)
	require.NoError(t, err)

	view, err := env.quizSvc.GetQuizForTaking(testUser, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.AttemptsRemaining)

	result, err := env.quizSvc.SubmitQuiz(testUser, quiz.ID, answersWithCorrect(4), 10, model.LanguageEnglish)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.True(t, result.TopicCompleted)

	progress, err := env.progress.FindByUserAndTopic(testUser, topics[2].ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, progress.Status)

	// Days 1 and 2 were untouched by the out-of-order completion.
	first, err := env.topics.FindByID(topics[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.TopicUnlocked, first.Status)
}

func TestSubmitQuizForeignUser(t *testing.T) {
	env := newTestEnv(t)
	_, topics := env.seedPlan(t, "other-user", 2, map[int][]model.QuizQuestion{1: fourQuestions()})

	quiz, err := env.quizzes.FindByTopic(topics[0].ID)
	require.NoError(t, err)

	_, err = env.quizSvc.SubmitQuiz(testUser, quiz.ID, answersWithCorrect(4), 5, model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrPlanNotOwned)
}
