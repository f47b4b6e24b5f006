package service

import (
	"fmt"
	"sort"
	"time"

	"kumba_backend/internal/model"
	"kumba_backend/internal/util"
)

// Chart is the generic drill-down payload behind the charts endpoint. Data
// and Summary vary per chart type.
type Chart struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Data    interface{} `json:"data"`
	Summary interface{} `json:"summary"`
}

type ProgressChartPoint struct {
	Date             string `json:"date"`
	TopicsCompleted  int    `json:"topicsCompleted"`
	CumulativeTopics int    `json:"cumulativeTopics"`
}

type TimeChartPoint struct {
	Date          string `json:"date"`
	ActualTime    int    `json:"actualTime"`
	EstimatedTime int    `json:"estimatedTime"`
	Efficiency    int    `json:"efficiency"`
}

type PerformanceWeek struct {
	Week         string `json:"week"`
	AverageScore int    `json:"averageScore"`
	PassRate     int    `json:"passRate"`
	Attempts     int    `json:"attempts"`
	HighestScore int    `json:"highestScore"`
	LowestScore  int    `json:"lowestScore"`
}

type StreakDay struct {
	Date        string `json:"date"`
	HasActivity bool   `json:"hasActivity"`
	Streak      int    `json:"streak"`
}

type DistributionSlice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BuildChart renders one drill-down chart. planID narrows to a single plan
// when non-empty; windowDays bounds the lookback (default 30).
func (s *AnalyticsService) BuildChart(userID, chartType, planID string, windowDays int) (*Chart, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -windowDays)

	switch chartType {
	case "progress":
		return s.progressChart(userID, planID, since)
	case "time":
		return s.timeChart(userID, planID, since)
	case "performance":
		return s.performanceChart(userID, planID, since)
	case "streak":
		return s.streakChart(userID, since, now)
	case "topics":
		return s.topicsChart(userID, planID)
	default:
		return nil, fmt.Errorf("unknown chart type %q", chartType)
	}
}

// completedInWindow loads the user's completed progress rows, optionally
// narrowed to one plan, oldest first.
func (s *AnalyticsService) completedInWindow(userID, planID string, since time.Time) ([]model.LearningProgress, error) {
	rows, err := s.ProgressRepo.ListCompletedSince(userID, since)
	if err != nil {
		return nil, err
	}
	filtered := make([]model.LearningProgress, 0, len(rows))
	for _, row := range rows {
		if planID != "" && row.PlanID != planID {
			continue
		}
		filtered = append(filtered, row)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CompletedAt.Before(*filtered[j].CompletedAt)
	})
	return filtered, nil
}

func (s *AnalyticsService) progressChart(userID, planID string, since time.Time) (*Chart, error) {
	rows, err := s.completedInWindow(userID, planID, since)
	if err != nil {
		return nil, err
	}

	daily := make(map[string]int)
	order := make([]string, 0)
	for _, row := range rows {
		date := utcDay(*row.CompletedAt).Format(util.DateFormat)
		if _, seen := daily[date]; !seen {
			order = append(order, date)
		}
		daily[date]++
	}
	sort.Strings(order)

	data := make([]ProgressChartPoint, 0, len(order))
	cumulative := 0
	best := ProgressChartPoint{}
	for _, date := range order {
		cumulative += daily[date]
		point := ProgressChartPoint{Date: date, TopicsCompleted: daily[date], CumulativeTopics: cumulative}
		if point.TopicsCompleted > best.TopicsCompleted {
			best = point
		}
		data = append(data, point)
	}

	avgPerDay := 0.0
	if len(data) > 0 {
		avgPerDay = float64(cumulative) / float64(len(data))
	}
	return &Chart{
		Type:  "progress",
		Title: "Learning Progress Over Time",
		Data:  data,
		Summary: map[string]interface{}{
			"totalTopicsCompleted": cumulative,
			"averagePerDay":        fmt.Sprintf("%.1f", avgPerDay),
			"mostProductiveDay":    best,
		},
	}, nil
}

func (s *AnalyticsService) timeChart(userID, planID string, since time.Time) (*Chart, error) {
	rows, err := s.completedInWindow(userID, planID, since)
	if err != nil {
		return nil, err
	}
	topicIDs := make([]string, len(rows))
	for i, row := range rows {
		topicIDs[i] = row.TopicID
	}
	estimates := make(map[string]int, len(topicIDs))
	for _, id := range topicIDs {
		topic, err := s.TopicRepo.FindByID(id)
		if err != nil {
			continue
		}
		estimates[id] = topic.TimeEstimate
	}

	type dayTime struct{ actual, estimated int }
	daily := make(map[string]*dayTime)
	order := make([]string, 0)
	for _, row := range rows {
		date := utcDay(*row.CompletedAt).Format(util.DateFormat)
		bucket, ok := daily[date]
		if !ok {
			bucket = &dayTime{}
			daily[date] = bucket
			order = append(order, date)
		}
		bucket.actual += row.TimeSpent
		estimate := estimates[row.TopicID]
		if estimate <= 0 {
			estimate = 60
		}
		bucket.estimated += estimate
	}
	sort.Strings(order)

	data := make([]TimeChartPoint, 0, len(order))
	totalActual, totalEstimated := 0, 0
	for _, date := range order {
		bucket := daily[date]
		data = append(data, TimeChartPoint{
			Date:          date,
			ActualTime:    bucket.actual,
			EstimatedTime: bucket.estimated,
			Efficiency:    efficiency(bucket.estimated, bucket.actual),
		})
		totalActual += bucket.actual
		totalEstimated += bucket.estimated
	}

	avgDaily := 0
	if len(data) > 0 {
		avgDaily = roundDiv(totalActual, len(data))
	}
	return &Chart{
		Type:  "time",
		Title: "Study Time Analysis",
		Data:  data,
		Summary: map[string]interface{}{
			"totalActualTime":    totalActual,
			"totalEstimatedTime": totalEstimated,
			"overallEfficiency":  efficiency(totalEstimated, totalActual),
			"averageDailyTime":   avgDaily,
		},
	}, nil
}

func (s *AnalyticsService) performanceChart(userID, planID string, since time.Time) (*Chart, error) {
	results, err := s.QuizRepo.ListResultsByUserSince(userID, since)
	if err != nil {
		return nil, err
	}
	if planID != "" {
		allowed, err := s.planQuizIDs(planID)
		if err != nil {
			return nil, err
		}
		filtered := results[:0]
		for _, r := range results {
			if allowed[r.QuizID] {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	type bucket struct {
		scores []int
		passed int
	}
	byWeek := make(map[string]*bucket)
	for _, r := range results {
		week := weekStart(r.CompletedAt).Format(util.DateFormat)
		b, ok := byWeek[week]
		if !ok {
			b = &bucket{}
			byWeek[week] = b
		}
		b.scores = append(b.scores, r.Score)
		if r.Passed {
			b.passed++
		}
	}
	weeks := make([]string, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)

	data := make([]PerformanceWeek, 0, len(weeks))
	best := PerformanceWeek{}
	totalScore, totalPassed := 0, 0
	for _, week := range weeks {
		b := byWeek[week]
		sum, high, low := 0, b.scores[0], b.scores[0]
		for _, score := range b.scores {
			sum += score
			if score > high {
				high = score
			}
			if score < low {
				low = score
			}
		}
		point := PerformanceWeek{
			Week:         week,
			AverageScore: roundDiv(sum, len(b.scores)),
			PassRate:     roundPercent(b.passed, len(b.scores)),
			Attempts:     len(b.scores),
			HighestScore: high,
			LowestScore:  low,
		}
		if point.AverageScore > best.AverageScore {
			best = point
		}
		data = append(data, point)
		totalScore += sum
		totalPassed += b.passed
	}

	summary := map[string]interface{}{
		"overallAverage":  0,
		"totalQuizzes":    len(results),
		"overallPassRate": 0,
		"bestWeek":        best,
	}
	if len(results) > 0 {
		summary["overallAverage"] = roundDiv(totalScore, len(results))
		summary["overallPassRate"] = roundPercent(totalPassed, len(results))
	}
	return &Chart{Type: "performance", Title: "Quiz Performance Trends", Data: data, Summary: summary}, nil
}

func (s *AnalyticsService) streakChart(userID string, since, now time.Time) (*Chart, error) {
	rows, err := s.ProgressRepo.ListCompletedSince(userID, since)
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool)
	for _, row := range rows {
		if row.CompletedAt != nil {
			active[utcDay(*row.CompletedAt).Format(util.DateFormat)] = true
		}
	}

	data := make([]StreakDay, 0)
	streak, maxStreak, activeDays := 0, 0, 0
	for day := utcDay(since); !day.After(utcDay(now)); day = day.AddDate(0, 0, 1) {
		date := day.Format(util.DateFormat)
		hasActivity := active[date]
		if hasActivity {
			streak++
			activeDays++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
		}
		data = append(data, StreakDay{Date: date, HasActivity: hasActivity, Streak: streak})
	}

	current := 0
	if len(data) > 0 {
		current = data[len(data)-1].Streak
	}
	return &Chart{
		Type:  "streak",
		Title: "Learning Streak Calendar",
		Data:  data,
		Summary: map[string]interface{}{
			"currentStreak":   current,
			"maxStreak":       maxStreak,
			"activeDays":      activeDays,
			"totalDays":       len(data),
			"consistencyRate": roundPercent(activeDays, len(data)),
		},
	}, nil
}

func (s *AnalyticsService) topicsChart(userID, planID string) (*Chart, error) {
	rows, err := s.ProgressRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if planID != "" {
		filtered := rows[:0]
		for _, row := range rows {
			if row.PlanID == planID {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	status := map[model.ProgressStatus]int{}
	mastery := map[string]int{}
	masterySum, masteryCount := 0, 0
	for _, row := range rows {
		status[row.Status]++
		if row.MasteryScore == nil {
			continue
		}
		score := *row.MasteryScore
		masterySum += score
		masteryCount++
		switch {
		case score >= 90:
			mastery["excellent"]++
		case score >= 80:
			mastery["good"]++
		case score >= 70:
			mastery["satisfactory"]++
		default:
			mastery["needsImprovement"]++
		}
	}

	data := map[string]interface{}{
		"statusDistribution": []DistributionSlice{
			{Label: "Completed", Count: status[model.ProgressCompleted]},
			{Label: "In Progress", Count: status[model.ProgressInProgress]},
			{Label: "Not Started", Count: status[model.ProgressNotStarted]},
		},
		"masteryDistribution": []DistributionSlice{
			{Label: "Excellent (90-100%)", Count: mastery["excellent"]},
			{Label: "Good (80-89%)", Count: mastery["good"]},
			{Label: "Satisfactory (70-79%)", Count: mastery["satisfactory"]},
			{Label: "Needs Improvement (<70%)", Count: mastery["needsImprovement"]},
		},
	}
	summary := map[string]interface{}{
		"totalTopics":    len(rows),
		"completionRate": roundPercent(status[model.ProgressCompleted], len(rows)),
		"averageMastery": roundDiv(masterySum, masteryCount),
	}
	return &Chart{Type: "topics", Title: "Topics Overview", Data: data, Summary: summary}, nil
}

func (s *AnalyticsService) planQuizIDs(planID string) (map[string]bool, error) {
	topics, err := s.TopicRepo.FindByPlanOrdered(planID)
	if err != nil {
		return nil, err
	}
	topicIDs := make([]string, len(topics))
	for i, t := range topics {
		topicIDs[i] = t.ID
	}
	quizzes, err := s.QuizRepo.FindByTopicIDs(topicIDs)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(quizzes))
	for _, quiz := range quizzes {
		allowed[quiz.ID] = true
	}
	return allowed, nil
}

func efficiency(estimated, actual int) int {
	if actual <= 0 || estimated <= 0 {
		return 100
	}
	return roundDiv(estimated*100, actual)
}
