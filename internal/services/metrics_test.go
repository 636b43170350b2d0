package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"labelforge.com/labelforge/internal/constants"
	model "labelforge.com/labelforge/internal/models"
	repository "labelforge.com/labelforge/internal/repositories"
)

// seedMetricsFixture reproduces the demo seed shape: 200 tasks split into
// 150 approved, 18 rejected back to in_progress with one comment each,
// 12 submitted, 20 unclaimed.
func seedMetricsFixture(t *testing.T, db *gorm.DB, datasetID uint) {
	annotatorID := "annotator"
	reviewerID := "reviewer"

	dayOne := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	dayTwo := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)

	tasks := make([]model.Task, 200)
	for i := range tasks {
		tasks[i] = model.Task{
			DatasetID:   datasetID,
			TextContent: "Solid build quality and works perfectly.",
			Status:      constants.StatusUnclaimed,
		}
	}

	for i := 0; i < 150; i++ {
		task := &tasks[i]

		reviewedAt := dayOne
		if i >= 100 {
			reviewedAt = dayTwo
		}
		submittedAt := reviewedAt.Add(-10 * time.Minute)

		annotation := model.JSONMap{"label": "positive"}
		switch {
		case i >= 140:
			// No label key: counted under "unknown".
			annotation = model.JSONMap{"note": "hard to tell"}
		case i >= 80:
			annotation = model.JSONMap{"label": "negative"}
		}

		task.Status = constants.StatusApproved
		task.AssignedTo = &annotatorID
		task.Annotation = annotation
		task.SubmittedAt = &submittedAt
		task.ReviewedBy = &reviewerID
		task.ReviewedAt = &reviewedAt
		task.TimeSpentSeconds = 60
	}

	for i := 150; i < 168; i++ {
		task := &tasks[i]
		submittedAt := dayTwo
		reviewedAt := dayTwo.Add(time.Hour)

		task.Status = constants.StatusInProgress
		task.AssignedTo = &annotatorID
		task.Annotation = model.JSONMap{"label": "positive"}
		task.SubmittedAt = &submittedAt
		task.ReviewedBy = &reviewerID
		task.ReviewedAt = &reviewedAt
		task.TimeSpentSeconds = 45
	}

	for i := 168; i < 180; i++ {
		task := &tasks[i]
		submittedAt := dayTwo.Add(2 * time.Hour)

		task.Status = constants.StatusSubmitted
		task.AssignedTo = &annotatorID
		task.Annotation = model.JSONMap{"label": "neutral"}
		task.SubmittedAt = &submittedAt
		task.TimeSpentSeconds = 30
	}

	if err := db.CreateInBatches(&tasks, 100).Error; err != nil {
		t.Fatalf("failed to create fixture tasks: %v", err)
	}

	for i := 150; i < 168; i++ {
		mustCreate(t, db, &model.Comment{
			TaskID:    tasks[i].ID,
			AuthorID:  reviewerID,
			Body:      "Wrong classification. Read the full context before assigning a label.",
			CreatedAt: dayTwo.Add(time.Hour),
		})
	}
}

func TestMetricsFixture(t *testing.T) {
	db := setupTestDB(t)
	dataset := seedDataset(t, db)
	seedMetricsFixture(t, db, dataset.ID)

	service := NewMetricsService(repository.NewTaskRepository(db), nil, 0)

	metrics, err := service.ProjectMetrics(context.Background(), 0)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}

	if metrics.TotalTasks != 200 {
		t.Errorf("expected 200 total tasks, got %d", metrics.TotalTasks)
	}
	if metrics.Completed != 150 {
		t.Errorf("expected 150 completed, got %d", metrics.Completed)
	}
	if metrics.Rejected != 18 {
		t.Errorf("expected 18 rejected, got %d", metrics.Rejected)
	}
	if metrics.CompletionRate != 75.0 {
		t.Errorf("expected completion rate 75.0, got %v", metrics.CompletionRate)
	}
	// 18 / (150 + 18) * 100 rounded to one decimal.
	if metrics.RejectionRate != 10.7 {
		t.Errorf("expected rejection rate 10.7, got %v", metrics.RejectionRate)
	}
	if metrics.AvgTimePerTask != 60.0 {
		t.Errorf("expected avg time 60.0, got %v", metrics.AvgTimePerTask)
	}

	if len(metrics.DailyThroughput) != 2 {
		t.Fatalf("expected 2 throughput days, got %d", len(metrics.DailyThroughput))
	}
	if metrics.DailyThroughput[0].Date != "2026-08-01" || metrics.DailyThroughput[0].Count != 100 {
		t.Errorf("unexpected first throughput entry: %+v", metrics.DailyThroughput[0])
	}
	if metrics.DailyThroughput[1].Date != "2026-08-02" || metrics.DailyThroughput[1].Count != 50 {
		t.Errorf("unexpected second throughput entry: %+v", metrics.DailyThroughput[1])
	}

	if len(metrics.PerAnnotator) != 1 {
		t.Fatalf("expected one annotator entry, got %d", len(metrics.PerAnnotator))
	}
	stats := metrics.PerAnnotator[0]
	if stats.UserID != "annotator" || stats.Done != 150 || stats.Rejected != 18 {
		t.Errorf("unexpected annotator stats: %+v", stats)
	}
	if stats.RejectionRate != 10.7 {
		t.Errorf("expected annotator rejection rate 10.7, got %v", stats.RejectionRate)
	}
	if stats.AvgTime != 60.0 {
		t.Errorf("expected annotator avg time 60.0, got %v", stats.AvgTime)
	}

	expectedLabels := map[string]int{"positive": 80, "negative": 60, "unknown": 10}
	for label, count := range expectedLabels {
		if metrics.LabelDistribution[label] != count {
			t.Errorf("expected %d %q labels, got %d", count, label, metrics.LabelDistribution[label])
		}
	}
	if len(metrics.LabelDistribution) != len(expectedLabels) {
		t.Errorf("unexpected label distribution: %v", metrics.LabelDistribution)
	}
}

func TestMetricsEmptyScope(t *testing.T) {
	db := setupTestDB(t)
	seedDataset(t, db)

	service := NewMetricsService(repository.NewTaskRepository(db), nil, 0)

	metrics, err := service.ProjectMetrics(context.Background(), 0)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}

	if metrics.TotalTasks != 0 || metrics.Completed != 0 || metrics.Rejected != 0 {
		t.Errorf("expected zero counts, got %+v", metrics)
	}
	// Rates stay finite with nothing to divide.
	if metrics.CompletionRate != 0 || metrics.RejectionRate != 0 || metrics.AvgTimePerTask != 0 {
		t.Errorf("expected zero rates, got %+v", metrics)
	}
	if len(metrics.DailyThroughput) != 0 || len(metrics.PerAnnotator) != 0 || len(metrics.LabelDistribution) != 0 {
		t.Errorf("expected empty aggregates, got %+v", metrics)
	}
}

func TestMetricsProjectScope(t *testing.T) {
	db := setupTestDB(t)
	first := seedDataset(t, db)
	second := seedDataset(t, db)
	ctx := context.Background()

	annotatorID := "annotator"
	reviewerID := "reviewer"
	reviewedAt := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	mustCreate(t, db, &model.Task{
		DatasetID:        first.ID,
		TextContent:      "Quick delivery and the product matched the description.",
		Status:           constants.StatusApproved,
		AssignedTo:       &annotatorID,
		Annotation:       model.JSONMap{"label": "positive"},
		ReviewedBy:       &reviewerID,
		ReviewedAt:       &reviewedAt,
		TimeSpentSeconds: 40,
	})
	mustCreate(t, db, &model.Task{
		DatasetID:   second.ID,
		TextContent: "Stopped working after three days.",
		Status:      constants.StatusUnclaimed,
	})

	service := NewMetricsService(repository.NewTaskRepository(db), nil, 0)

	scoped, err := service.ProjectMetrics(ctx, first.ProjectID)
	if err != nil {
		t.Fatalf("scoped metrics failed: %v", err)
	}
	if scoped.TotalTasks != 1 || scoped.Completed != 1 {
		t.Errorf("expected scope of one approved task, got %+v", scoped)
	}
	if scoped.CompletionRate != 100.0 {
		t.Errorf("expected completion rate 100.0, got %v", scoped.CompletionRate)
	}

	global, err := service.ProjectMetrics(ctx, 0)
	if err != nil {
		t.Fatalf("global metrics failed: %v", err)
	}
	if global.TotalTasks != 2 {
		t.Errorf("expected 2 tasks globally, got %d", global.TotalTasks)
	}
}

func TestMetricsRejectedCountsDistinctTasks(t *testing.T) {
	db := setupTestDB(t)
	dataset := seedDataset(t, db)
	annotatorID := "annotator"

	task := &model.Task{
		DatasetID:   dataset.ID,
		TextContent: "The sizing was completely off.",
		Status:      constants.StatusInProgress,
		AssignedTo:  &annotatorID,
		Annotation:  model.JSONMap{"label": "negative"},
	}
	mustCreate(t, db, task)

	// Two rejection comments on the same task still count it once.
	mustCreate(t, db, &model.Comment{TaskID: task.ID, AuthorID: "reviewer", Body: "First pass.", CreatedAt: time.Now().UTC()})
	mustCreate(t, db, &model.Comment{TaskID: task.ID, AuthorID: "reviewer", Body: "Second pass.", CreatedAt: time.Now().UTC()})

	service := NewMetricsService(repository.NewTaskRepository(db), nil, 0)

	metrics, err := service.ProjectMetrics(context.Background(), 0)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	if metrics.Rejected != 1 {
		t.Errorf("expected one distinct rejected task, got %d", metrics.Rejected)
	}
	if metrics.RejectionRate != 100.0 {
		t.Errorf("expected rejection rate 100.0, got %v", metrics.RejectionRate)
	}
}

func TestMetricsCache(t *testing.T) {
	db := setupTestDB(t)
	dataset := seedDataset(t, db)
	ctx := context.Background()

	mustCreate(t, db, &model.Task{
		DatasetID:   dataset.ID,
		TextContent: "Decent product for everyday use.",
		Status:      constants.StatusUnclaimed,
	})

	mockCache := newMockMetricsCache()
	service := NewMetricsService(repository.NewTaskRepository(db), mockCache, time.Minute)

	first, err := service.ProjectMetrics(ctx, 0)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	if first.TotalTasks != 1 {
		t.Errorf("expected 1 task, got %d", first.TotalTasks)
	}
	if !mockCache.has("global") {
		t.Error("expected snapshot to be cached")
	}

	// Until the TTL lapses the snapshot is served from cache.
	mustCreate(t, db, &model.Task{
		DatasetID:   dataset.ID,
		TextContent: "Way too expensive for what you get.",
		Status:      constants.StatusUnclaimed,
	})

	second, err := service.ProjectMetrics(ctx, 0)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	if second.TotalTasks != 1 {
		t.Errorf("expected cached snapshot with 1 task, got %d", second.TotalTasks)
	}

	if err := service.Refresh(ctx, 0); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	third, err := service.ProjectMetrics(ctx, 0)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	if third.TotalTasks != 2 {
		t.Errorf("expected refreshed snapshot with 2 tasks, got %d", third.TotalTasks)
	}
}

func TestMetricsRefresher(t *testing.T) {
	db := setupTestDB(t)
	seedDataset(t, db)

	mockCache := newMockMetricsCache()
	service := NewMetricsService(repository.NewTaskRepository(db), mockCache, time.Minute)

	refresher := NewMetricsRefresher(service, 20*time.Millisecond)
	defer refresher.Shutdown(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mockCache.has("global") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Error("refresher never warmed the global snapshot")
}
