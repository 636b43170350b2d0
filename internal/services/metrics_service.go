package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"labelforge.com/labelforge/internal/cache"
	"labelforge.com/labelforge/internal/constants"
	dto "labelforge.com/labelforge/internal/data_models"
	repository "labelforge.com/labelforge/internal/repositories"
)

// MetricsService derives the dashboard statistics from the task and comment
// history. Computation is read-only; snapshots are cached with a TTL when a
// cache is configured, so reads may lag writes by up to the TTL.
type MetricsService struct {
	repo  *repository.TaskRepository
	cache cache.MetricsCache
	ttl   time.Duration
}

func NewMetricsService(repo *repository.TaskRepository, metricsCache cache.MetricsCache, ttl time.Duration) *MetricsService {
	return &MetricsService{
		repo:  repo,
		cache: metricsCache,
		ttl:   ttl,
	}
}

// ProjectMetrics returns the snapshot for one project, or for all tasks when
// projectID is 0.
func (s *MetricsService) ProjectMetrics(ctx context.Context, projectID uint) (*dto.ProjectMetrics, error) {
	if metrics, ok := s.fromCache(ctx, projectID); ok {
		return metrics, nil
	}

	metrics, err := s.compute(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.store(ctx, projectID, metrics)
	return metrics, nil
}

// Refresh recomputes a scope and overwrites its cached snapshot. Used by the
// background warmer.
func (s *MetricsService) Refresh(ctx context.Context, projectID uint) error {
	metrics, err := s.compute(ctx, projectID)
	if err != nil {
		return err
	}
	s.store(ctx, projectID, metrics)
	return nil
}

func (s *MetricsService) compute(ctx context.Context, projectID uint) (*dto.ProjectMetrics, error) {
	tasks, err := s.repo.TasksInScope(ctx, projectID)
	if err != nil {
		return nil, err
	}
	commented, err := s.repo.CommentedTaskIDs(ctx, projectID)
	if err != nil {
		return nil, err
	}

	type annotatorAgg struct {
		done      int
		rejected  int
		timeSum   int
		timeCount int
	}

	var (
		completed   int
		rejected    int
		timeSum     int
		timeCount   int
		daily       = map[string]int{}
		labels      = map[string]int{}
		byAnnotator = map[string]*annotatorAgg{}
	)

	for i := range tasks {
		t := &tasks[i]
		_, hasComment := commented[t.ID]
		if hasComment {
			rejected++
		}

		approved := t.Status == constants.StatusApproved
		if approved {
			completed++
			if t.TimeSpentSeconds > 0 {
				timeSum += t.TimeSpentSeconds
				timeCount++
			}
			if t.ReviewedAt != nil {
				daily[t.ReviewedAt.UTC().Format(time.DateOnly)]++
			}
			if t.Annotation != nil {
				label := "unknown"
				if v, ok := t.Annotation["label"].(string); ok {
					label = v
				}
				labels[label]++
			}
		}

		if t.AssignedTo != nil {
			agg := byAnnotator[*t.AssignedTo]
			if agg == nil {
				agg = &annotatorAgg{}
				byAnnotator[*t.AssignedTo] = agg
			}
			if approved {
				agg.done++
				if t.TimeSpentSeconds > 0 {
					agg.timeSum += t.TimeSpentSeconds
					agg.timeCount++
				}
			}
			if hasComment {
				agg.rejected++
			}
		}
	}

	total := len(tasks)
	metrics := &dto.ProjectMetrics{
		TotalTasks:        total,
		Completed:         completed,
		Rejected:          rejected,
		DailyThroughput:   make([]dto.DailyCount, 0, len(daily)),
		PerAnnotator:      make([]dto.AnnotatorStats, 0, len(byAnnotator)),
		LabelDistribution: labels,
	}

	if total > 0 {
		metrics.CompletionRate = round1(float64(completed) / float64(total) * 100)
	}
	if reviewed := completed + rejected; reviewed > 0 {
		metrics.RejectionRate = round1(float64(rejected) / float64(reviewed) * 100)
	}
	if timeCount > 0 {
		metrics.AvgTimePerTask = round1(float64(timeSum) / float64(timeCount))
	}

	dates := make([]string, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		metrics.DailyThroughput = append(metrics.DailyThroughput, dto.DailyCount{
			Date:  date,
			Count: daily[date],
		})
	}

	for userID, agg := range byAnnotator {
		stats := dto.AnnotatorStats{
			UserID:   userID,
			Done:     agg.done,
			Rejected: agg.rejected,
		}
		if reviewed := agg.done + agg.rejected; reviewed > 0 {
			stats.RejectionRate = round1(float64(agg.rejected) / float64(reviewed) * 100)
		}
		if agg.timeCount > 0 {
			stats.AvgTime = round1(float64(agg.timeSum) / float64(agg.timeCount))
		}
		metrics.PerAnnotator = append(metrics.PerAnnotator, stats)
	}

	return metrics, nil
}

func (s *MetricsService) fromCache(ctx context.Context, projectID uint) (*dto.ProjectMetrics, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, ok, err := s.cache.Get(ctx, metricsCacheKey(projectID))
	if err != nil {
		log.Printf("metrics cache read failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var metrics dto.ProjectMetrics
	if err := json.Unmarshal(payload, &metrics); err != nil {
		log.Printf("metrics cache payload corrupt: %v", err)
		return nil, false
	}
	return &metrics, true
}

func (s *MetricsService) store(ctx context.Context, projectID uint, metrics *dto.ProjectMetrics) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(metrics)
	if err != nil {
		log.Printf("metrics cache marshal failed: %v", err)
		return
	}
	if err := s.cache.Set(ctx, metricsCacheKey(projectID), payload, s.ttl); err != nil {
		log.Printf("metrics cache write failed: %v", err)
	}
}

func metricsCacheKey(projectID uint) string {
	if projectID == 0 {
		return "global"
	}
	return fmt.Sprintf("project:%d", projectID)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
