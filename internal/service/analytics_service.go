package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"kumba_backend/internal/model"
	"kumba_backend/internal/repository"
	"kumba_backend/internal/util"
	"kumba_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const dashboardCacheKey = "kumba:dashboard:%s"

// InsightMetric selects which statistic a rule thresholds on.
type InsightMetric string

const (
	MetricStreak       InsightMetric = "streak"
	MetricAverageScore InsightMetric = "averageScore"
	MetricCompletion   InsightMetric = "completion"
	MetricVelocity     InsightMetric = "velocity"
)

// InsightRule fires when the chosen metric lands in [Min, Max]. Score and
// completion rules are skipped when the user has no quiz results or topics,
// so empty accounts are not scolded for a zero they never earned.
type InsightRule struct {
	Metric  InsightMetric
	Min     int
	Max     int
	Message string
}

// DefaultInsightRules is the stock rule table wired in at startup.
func DefaultInsightRules() []InsightRule {
	return []InsightRule{
		{Metric: MetricStreak, Min: 7, Max: math.MaxInt32, Message: "🔥 Amazing! You're on a %d-day learning streak!"},
		{Metric: MetricStreak, Min: 0, Max: 0, Message: "📚 Start a new learning streak today!"},
		{Metric: MetricAverageScore, Min: 90, Max: 100, Message: "🌟 Excellent quiz performance! You're mastering the material."},
		{Metric: MetricAverageScore, Min: 0, Max: 69, Message: "📖 Consider spending more time reviewing before taking quizzes."},
		{Metric: MetricCompletion, Min: 80, Max: 100, Message: "🎯 You're almost done! Keep up the momentum."},
		{Metric: MetricCompletion, Min: 0, Max: 19, Message: "🚀 Great start! Consistency is key to success."},
		{Metric: MetricVelocity, Min: 5, Max: math.MaxInt32, Message: "⚡ You're learning at an impressive pace!"},
		{Metric: MetricVelocity, Min: 0, Max: 0, Message: "⏰ Try to complete at least one topic this week."},
	}
}

// InsightStats is the slice of the overview the rule table reads.
type InsightStats struct {
	Streak            int
	AverageQuizScore  int
	CompletionPercent int
	WeeklyVelocity    int
	HasQuizResults    bool
	HasTopics         bool
}

// AnalyticsService derives dashboards and charts from progress and quiz
// history. It is read-only; every write path lives elsewhere.
type AnalyticsService struct {
	PlanRepo     *repository.PlanRepository
	TopicRepo    *repository.TopicRepository
	QuizRepo     *repository.QuizRepository
	ProgressRepo *repository.ProgressRepository
	Redis        *redis.Client
	cacheTTL     time.Duration
	rules        []InsightRule
}

func NewAnalyticsService(
	planRepo *repository.PlanRepository,
	topicRepo *repository.TopicRepository,
	quizRepo *repository.QuizRepository,
	progressRepo *repository.ProgressRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	rules []InsightRule,
) *AnalyticsService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &AnalyticsService{
		PlanRepo:     planRepo,
		TopicRepo:    topicRepo,
		QuizRepo:     quizRepo,
		ProgressRepo: progressRepo,
		Redis:        redisClient,
		cacheTTL:     cacheTTL,
		rules:        rules,
	}
}

// Dashboard builds the full analytics payload for one user. Results are
// cached briefly in redis; cache failures degrade to a direct rebuild.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID string) (*model.Dashboard, error) {
	key := fmt.Sprintf(dashboardCacheKey, userID)
	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var cached model.Dashboard
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	dashboard, err := s.buildDashboard(userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(dashboard); err == nil {
			if err := s.Redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				logger.Log.Warn("dashboard cache write failed", zap.Error(err))
			}
		}
	}
	return dashboard, nil
}

// InvalidateDashboard drops the cached dashboard after a completion or a quiz
// submission so the next read reflects the new state.
func (s *AnalyticsService) InvalidateDashboard(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, fmt.Sprintf(dashboardCacheKey, userID)).Err(); err != nil {
		logger.Log.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *AnalyticsService) buildDashboard(userID string, now time.Time) (*model.Dashboard, error) {
	plans, err := s.PlanRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	topicsByPlan := make(map[string][]model.Topic, len(plans))
	var allTopics []model.Topic
	for _, plan := range plans {
		topics, err := s.TopicRepo.FindByPlanOrdered(plan.ID)
		if err != nil {
			return nil, err
		}
		topicsByPlan[plan.ID] = topics
		allTopics = append(allTopics, topics...)
	}

	topicIDs := make([]string, len(allTopics))
	topicByID := make(map[string]model.Topic, len(allTopics))
	for i, t := range allTopics {
		topicIDs[i] = t.ID
		topicByID[t.ID] = t
	}
	progressByTopic, err := s.ProgressRepo.MapByUserAndTopics(userID, topicIDs)
	if err != nil {
		return nil, err
	}
	results, err := s.QuizRepo.ListResultsByUser(userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.ProgressRepo.ListCompletedSince(userID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	overview := model.Overview{TotalPlans: len(plans), TotalTopics: len(allTopics)}
	for _, plan := range plans {
		switch plan.Status {
		case model.PlanActive:
			overview.ActivePlans++
		case model.PlanCompleted:
			overview.CompletedPlans++
		}
	}
	for _, progress := range progressByTopic {
		overview.TotalStudyTime += progress.TimeSpent
		if progress.Status == model.ProgressCompleted {
			overview.CompletedTopics++
		}
	}
	scoreSum := 0
	for _, r := range results {
		overview.TotalQuizzes++
		scoreSum += r.Score
		if r.Passed {
			overview.PassedQuizzes++
		}
	}
	if overview.TotalQuizzes > 0 {
		overview.AverageQuizScore = roundDiv(scoreSum, overview.TotalQuizzes)
	}

	completions := make([]time.Time, 0, len(recent))
	weekAgo := now.AddDate(0, 0, -7)
	for _, p := range recent {
		if p.CompletedAt == nil {
			continue
		}
		completions = append(completions, *p.CompletedAt)
		if p.CompletedAt.After(weekAgo) {
			overview.WeeklyVelocity++
		}
	}
	overview.LearningStreak = CalculateStreak(completions, now)

	charts := model.DashboardCharts{
		StudyTime:       studyTimeChart(recent, now),
		Progress:        planProgressChart(plans, topicsByPlan, progressByTopic),
		QuizPerformance: quizPerformanceChart(results, 8),
	}

	activity := make([]model.RecentActivity, 0, 10)
	for _, p := range recent {
		if len(activity) == 10 {
			break
		}
		topic := topicByID[p.TopicID]
		activity = append(activity, model.RecentActivity{
			ID:           p.ID,
			TopicTitle:   topic.Title,
			DayIndex:     topic.DayIndex,
			CompletedAt:  p.CompletedAt,
			TimeSpent:    p.TimeSpent,
			MasteryScore: p.MasteryScore,
		})
	}

	upcoming := make([]model.UpcomingTopic, 0, 5)
	for _, plan := range plans {
		for _, topic := range topicsByPlan[plan.ID] {
			if len(upcoming) == 5 {
				break
			}
			progress, started := progressByTopic[topic.ID]
			if topic.Status == model.TopicUnlocked || (started && progress.Status == model.ProgressInProgress) {
				upcoming = append(upcoming, model.UpcomingTopic{
					ID:           topic.ID,
					Title:        topic.Title,
					DayIndex:     topic.DayIndex,
					TimeEstimate: topic.TimeEstimate,
					PlanTitle:    plan.Title,
				})
			}
		}
	}

	stats := InsightStats{
		Streak:           overview.LearningStreak,
		AverageQuizScore: overview.AverageQuizScore,
		WeeklyVelocity:   overview.WeeklyVelocity,
		HasQuizResults:   overview.TotalQuizzes > 0,
		HasTopics:        overview.TotalTopics > 0,
	}
	if overview.TotalTopics > 0 {
		stats.CompletionPercent = roundPercent(overview.CompletedTopics, overview.TotalTopics)
	}

	return &model.Dashboard{
		Overview:       overview,
		Charts:         charts,
		RecentActivity: activity,
		UpcomingTopics: upcoming,
		Insights:       s.Insights(stats),
	}, nil
}

// Insights runs the rule table against the stats. Deterministic, no AI.
func (s *AnalyticsService) Insights(stats InsightStats) []string {
	insights := make([]string, 0, len(s.rules))
	for _, rule := range s.rules {
		var value int
		switch rule.Metric {
		case MetricStreak:
			value = stats.Streak
		case MetricAverageScore:
			if !stats.HasQuizResults {
				continue
			}
			value = stats.AverageQuizScore
		case MetricCompletion:
			if !stats.HasTopics {
				continue
			}
			value = stats.CompletionPercent
		case MetricVelocity:
			value = stats.WeeklyVelocity
		default:
			continue
		}
		if value < rule.Min || value > rule.Max {
			continue
		}
		message := rule.Message
		if rule.Metric == MetricStreak && rule.Min > 0 {
			message = fmt.Sprintf(rule.Message, stats.Streak)
		}
		insights = append(insights, message)
	}
	return insights
}

func studyTimeChart(recent []model.LearningProgress, now time.Time) []model.StudyDay {
	byDay := make(map[string]*model.StudyDay)
	days := make([]model.StudyDay, 7)
	for i := 0; i < 7; i++ {
		day := utcDay(now).AddDate(0, 0, i-6)
		days[i] = model.StudyDay{Date: day.Format(util.DateFormat)}
		byDay[days[i].Date] = &days[i]
	}
	for _, p := range recent {
		if p.CompletedAt == nil {
			continue
		}
		if bucket, ok := byDay[utcDay(*p.CompletedAt).Format(util.DateFormat)]; ok {
			bucket.TimeSpent += p.TimeSpent
			bucket.TopicsCompleted++
		}
	}
	return days
}

func planProgressChart(plans []model.LearningPlan, topicsByPlan map[string][]model.Topic, progressByTopic map[string]model.LearningProgress) []model.PlanProgressPoint {
	points := make([]model.PlanProgressPoint, 0, len(plans))
	for _, plan := range plans {
		topics := topicsByPlan[plan.ID]
		point := model.PlanProgressPoint{
			PlanID:      plan.ID,
			PlanTitle:   plan.Title,
			TotalTopics: len(topics),
		}
		for _, topic := range topics {
			if p, ok := progressByTopic[topic.ID]; ok && p.Status == model.ProgressCompleted {
				point.CompletedTopics++
			}
		}
		point.Progress = roundPercent(point.CompletedTopics, point.TotalTopics)
		points = append(points, point)
	}
	return points
}

// quizPerformanceChart buckets results by calendar week (Monday start, UTC)
// and keeps the trailing maxWeeks. Pass rate reflects each result's own
// pass/fail flag, which was graded against its quiz's passing score.
func quizPerformanceChart(results []model.QuizResult, maxWeeks int) []model.QuizWeek {
	if len(results) == 0 {
		return []model.QuizWeek{}
	}
	type bucket struct {
		scoreSum int
		count    int
		passed   int
	}
	byWeek := make(map[string]*bucket)
	for _, r := range results {
		week := weekStart(r.CompletedAt).Format(util.DateFormat)
		b, ok := byWeek[week]
		if !ok {
			b = &bucket{}
			byWeek[week] = b
		}
		b.scoreSum += r.Score
		b.count++
		if r.Passed {
			b.passed++
		}
	}

	weeks := make([]string, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)
	if len(weeks) > maxWeeks {
		weeks = weeks[len(weeks)-maxWeeks:]
	}

	out := make([]model.QuizWeek, 0, len(weeks))
	for _, week := range weeks {
		b := byWeek[week]
		out = append(out, model.QuizWeek{
			Week:         week,
			AverageScore: roundDiv(b.scoreSum, b.count),
			QuizCount:    b.count,
			PassRate:     roundPercent(b.passed, b.count),
		})
	}
	return out
}

func weekStart(t time.Time) time.Time {
	day := utcDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
