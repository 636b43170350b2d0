package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"labelforge.com/labelforge/internal/constants"
	model "labelforge.com/labelforge/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(&model.Project{}, &model.Dataset{}, &model.Task{}, &model.Comment{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func createTask(t *testing.T, db *gorm.DB, status constants.TaskStatus) *model.Task {
	project := &model.Project{Name: "Sentiment", CreatedBy: "admin", CreatedAt: time.Now().UTC()}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	dataset := &model.Dataset{ProjectID: project.ID, Name: "v1", CreatedAt: time.Now().UTC()}
	if err := db.Create(dataset).Error; err != nil {
		t.Fatalf("failed to create dataset: %v", err)
	}

	task := &model.Task{
		DatasetID:   dataset.ID,
		TextContent: "Five stars! Exactly what I was looking for.",
		Status:      status,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func TestCompareAndUpdateStaleStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := createTask(t, db, constants.StatusUnclaimed)

	err := repo.CompareAndUpdate(ctx, task.ID, constants.StatusSubmitted, map[string]interface{}{
		"status": constants.StatusApproved,
	})
	if !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus, got %v", err)
	}

	current, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if current.Status != constants.StatusUnclaimed {
		t.Errorf("lost compare-and-set must not change the row, got %s", current.Status)
	}
}

func TestCompareAndUpdateWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := createTask(t, db, constants.StatusUnclaimed)

	err := repo.CompareAndUpdate(ctx, task.ID, constants.StatusUnclaimed, map[string]interface{}{
		"status":      constants.StatusInProgress,
		"assigned_to": "ann-1",
	})
	if err != nil {
		t.Fatalf("compare-and-set failed: %v", err)
	}

	current, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if current.Status != constants.StatusInProgress {
		t.Errorf("expected status %s, got %s", constants.StatusInProgress, current.Status)
	}
	if current.AssignedTo == nil || *current.AssignedTo != "ann-1" {
		t.Error("expected assignment to be applied with the status")
	}
}

func TestRejectWithCommentAtomicity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	// Not submitted: the transaction rolls back and no comment appears.
	task := createTask(t, db, constants.StatusInProgress)
	err := repo.RejectWithComment(ctx, task.ID, map[string]interface{}{
		"status": constants.StatusInProgress,
	}, "rev-1", "Wrong label.")
	if !errors.Is(err, ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus, got %v", err)
	}

	var count int64
	if err := db.Model(&model.Comment{}).Where("task_id = ?", task.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("rolled-back reject must not leave a comment, found %d", count)
	}

	// Submitted: status change and comment land together.
	if err := db.Model(&model.Task{}).Where("id = ?", task.ID).
		Update("status", constants.StatusSubmitted).Error; err != nil {
		t.Fatalf("fixture update failed: %v", err)
	}

	now := time.Now().UTC()
	err = repo.RejectWithComment(ctx, task.ID, map[string]interface{}{
		"status":      constants.StatusInProgress,
		"reviewed_by": "rev-1",
		"reviewed_at": now,
	}, "rev-1", "Wrong label.")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	current, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if current.Status != constants.StatusInProgress {
		t.Errorf("expected status %s, got %s", constants.StatusInProgress, current.Status)
	}
	if len(current.Comments) != 1 || current.Comments[0].Body != "Wrong label." {
		t.Errorf("expected exactly one comment, got %+v", current.Comments)
	}
}

func TestCommentedTaskIDsDistinct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := createTask(t, db, constants.StatusInProgress)
	for i := 0; i < 3; i++ {
		comment := &model.Comment{TaskID: task.ID, AuthorID: "rev-1", Body: "again", CreatedAt: time.Now().UTC()}
		if err := db.Create(comment).Error; err != nil {
			t.Fatalf("failed to create comment: %v", err)
		}
	}

	ids, err := repo.CommentedTaskIDs(ctx, 0)
	if err != nil {
		t.Fatalf("commented task ids failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("expected one distinct commented task, got %d", len(ids))
	}
	if _, ok := ids[task.ID]; !ok {
		t.Errorf("expected task %d in the commented set", task.ID)
	}
}
