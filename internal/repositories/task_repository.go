package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"labelforge.com/labelforge/internal/constants"
	model "labelforge.com/labelforge/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

// ErrStaleStatus is returned when a compare-and-set update finds the row's
// status no longer matches the expected one. Concurrent transitions on the
// same task are linearized this way: exactly one writer wins, the rest see
// this error instead of silently overwriting.
var ErrStaleStatus = errors.New("task status changed concurrently")

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc")
		}).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// CompareAndUpdate applies patch to the task only while its status still
// equals expected. Either the whole patch lands or nothing does.
func (r *TaskRepository) CompareAndUpdate(
	ctx context.Context,
	id uint,
	expected constants.TaskStatus,
	patch map[string]interface{},
) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(patch)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// RejectWithComment commits the status patch and the rejection comment in one
// transaction. A reader never observes the in_progress status without the
// comment, or the comment without the status.
func (r *TaskRepository) RejectWithComment(
	ctx context.Context,
	id uint,
	patch map[string]interface{},
	authorID, body string,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).
			Where("id = ? AND status = ?", id, constants.StatusSubmitted).
			Updates(patch)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		comment := &model.Comment{
			TaskID:    id,
			AuthorID:  authorID,
			Body:      body,
			CreatedAt: time.Now().UTC(),
		}
		return tx.Create(comment).Error
	})
}

// AnnotatorQueue lists fresh work plus the caller's own in-flight tasks,
// including tasks rejected back to them, ordered by id ascending.
func (r *TaskRepository) AnnotatorQueue(ctx context.Context, userID string, datasetID uint) ([]model.Task, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? OR (assigned_to = ? AND status = ?)",
			constants.StatusUnclaimed, userID, constants.StatusInProgress).
		Order("id asc")

	if datasetID != 0 {
		query = query.Where("dataset_id = ?", datasetID)
	}

	var tasks []model.Task
	err := query.Find(&tasks).Error
	return tasks, err
}

// ReviewQueue lists submitted tasks oldest submission first.
func (r *TaskRepository) ReviewQueue(ctx context.Context, datasetID uint) ([]model.Task, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", constants.StatusSubmitted).
		Order("submitted_at asc")

	if datasetID != 0 {
		query = query.Where("dataset_id = ?", datasetID)
	}

	var tasks []model.Task
	err := query.Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) ListByDataset(ctx context.Context, datasetID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc")
		}).
		Where("dataset_id = ?", datasetID).
		Order("id asc").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) BulkCreate(ctx context.Context, datasetID uint, texts []string) (int, error) {
	tasks := make([]model.Task, 0, len(texts))
	for _, text := range texts {
		tasks = append(tasks, model.Task{
			DatasetID:   datasetID,
			TextContent: text,
			Status:      constants.StatusUnclaimed,
		})
	}

	if err := r.db.WithContext(ctx).CreateInBatches(&tasks, 100).Error; err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// TasksInScope returns every task, optionally restricted to one project via
// the dataset join. Metrics reads are read-committed; they never block
// writers.
func (r *TaskRepository) TasksInScope(ctx context.Context, projectID uint) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{}).Select("tasks.*")
	if projectID != 0 {
		query = query.
			Joins("JOIN datasets ON datasets.id = tasks.dataset_id").
			Where("datasets.project_id = ?", projectID)
	}

	var tasks []model.Task
	err := query.Find(&tasks).Error
	return tasks, err
}

// CommentedTaskIDs returns the set of distinct tasks in scope that carry at
// least one rejection comment. A task rejected twice appears once.
func (r *TaskRepository) CommentedTaskIDs(ctx context.Context, projectID uint) (map[uint]struct{}, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{})
	if projectID != 0 {
		query = query.
			Joins("JOIN tasks ON tasks.id = comments.task_id").
			Joins("JOIN datasets ON datasets.id = tasks.dataset_id").
			Where("datasets.project_id = ?", projectID)
	}

	var ids []uint
	if err := query.Distinct().Pluck("comments.task_id", &ids).Error; err != nil {
		return nil, err
	}

	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// CountByStatus breaks a dataset's tasks down per lifecycle state.
func (r *TaskRepository) CountByStatus(ctx context.Context, datasetID uint) (map[constants.TaskStatus]int64, error) {
	type row struct {
		Status constants.TaskStatus
		Count  int64
	}

	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("status, count(*) as count").
		Where("dataset_id = ?", datasetID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[constants.TaskStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
