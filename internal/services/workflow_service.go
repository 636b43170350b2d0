package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"labelforge.com/labelforge/internal/constants"
	apperrors "labelforge.com/labelforge/internal/errors"
	model "labelforge.com/labelforge/internal/models"
	repository "labelforge.com/labelforge/internal/repositories"
)

// WorkflowService drives the task lifecycle:
// unclaimed -> in_progress -> submitted -> approved, with submitted ->
// in_progress on reject. Every transition is a single compare-and-set keyed
// on the current status, so concurrent callers on the same task resolve to
// exactly one winner; losers get a conflict naming the status that won.
type WorkflowService struct {
	repo *repository.TaskRepository
}

func NewWorkflowService(repo *repository.TaskRepository) *WorkflowService {
	return &WorkflowService{repo: repo}
}

// Claim takes ownership of an unclaimed task for the caller.
func (s *WorkflowService) Claim(ctx context.Context, taskID uint, caller model.Identity) (*model.Task, error) {
	if !constants.CanClaim(caller.Role) {
		return nil, apperrors.Permission("only annotators or admins can claim tasks")
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != constants.StatusUnclaimed {
		return nil, apperrors.Conflict("claim", taskID, task.Status, constants.StatusUnclaimed)
	}

	patch := map[string]interface{}{
		"status":      constants.StatusInProgress,
		"assigned_to": caller.UserID,
	}
	if err := s.applyTransition(ctx, taskID, constants.StatusUnclaimed, "claim", patch); err != nil {
		return nil, err
	}

	return s.loadTask(ctx, taskID)
}

// Submit records the caller's annotation on their in-progress task and hands
// it to review. Only the assignee may submit; admins are not exempt here.
// timeSpentSeconds is stored as sent, without validation.
func (s *WorkflowService) Submit(
	ctx context.Context,
	taskID uint,
	caller model.Identity,
	annotation model.JSONMap,
	timeSpentSeconds int,
) (*model.Task, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if len(annotation) == 0 {
		return nil, apperrors.Validation("annotation is required")
	}
	if task.Status != constants.StatusInProgress {
		return nil, apperrors.Conflict("submit", taskID, task.Status, constants.StatusInProgress)
	}
	if task.AssignedTo == nil || *task.AssignedTo != caller.UserID {
		return nil, apperrors.Permission("only the assigned annotator can submit this task")
	}

	patch := map[string]interface{}{
		"status":             constants.StatusSubmitted,
		"annotation":         annotation,
		"submitted_at":       time.Now().UTC(),
		"time_spent_seconds": timeSpentSeconds,
	}
	if err := s.applyTransition(ctx, taskID, constants.StatusInProgress, "submit", patch); err != nil {
		return nil, err
	}

	return s.loadTask(ctx, taskID)
}

// Approve marks a submitted task as done.
func (s *WorkflowService) Approve(ctx context.Context, taskID uint, caller model.Identity) (*model.Task, error) {
	if !constants.CanReview(caller.Role) {
		return nil, apperrors.Permission("only reviewers or admins can approve tasks")
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != constants.StatusSubmitted {
		return nil, apperrors.Conflict("approve", taskID, task.Status, constants.StatusSubmitted)
	}

	patch := map[string]interface{}{
		"status":      constants.StatusApproved,
		"reviewed_by": caller.UserID,
		"reviewed_at": time.Now().UTC(),
	}
	if err := s.applyTransition(ctx, taskID, constants.StatusSubmitted, "approve", patch); err != nil {
		return nil, err
	}

	return s.loadTask(ctx, taskID)
}

// Reject sends a submitted task back to its annotator with a mandatory
// comment. Assignment and annotation are left untouched so the annotator can
// revise, and review metadata from this event is kept even after the task
// re-enters in_progress.
func (s *WorkflowService) Reject(ctx context.Context, taskID uint, caller model.Identity, commentBody string) (*model.Task, error) {
	if !constants.CanReview(caller.Role) {
		return nil, apperrors.Permission("only reviewers or admins can reject tasks")
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != constants.StatusSubmitted {
		return nil, apperrors.Conflict("reject", taskID, task.Status, constants.StatusSubmitted)
	}

	body := strings.TrimSpace(commentBody)
	if body == "" {
		return nil, apperrors.Validation("a comment is required when rejecting a task")
	}

	patch := map[string]interface{}{
		"status":      constants.StatusInProgress,
		"reviewed_by": caller.UserID,
		"reviewed_at": time.Now().UTC(),
	}
	if err := s.repo.RejectWithComment(ctx, taskID, patch, caller.UserID, body); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, s.conflict(ctx, taskID, "reject", constants.StatusSubmitted)
		}
		return nil, err
	}

	return s.loadTask(ctx, taskID)
}

func (s *WorkflowService) applyTransition(
	ctx context.Context,
	taskID uint,
	expected constants.TaskStatus,
	op string,
	patch map[string]interface{},
) error {
	err := s.repo.CompareAndUpdate(ctx, taskID, expected, patch)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrStaleStatus) {
		return s.conflict(ctx, taskID, op, expected)
	}
	return err
}

// conflict re-reads the task after a lost race so the error reports the
// status the winning writer left behind.
func (s *WorkflowService) conflict(ctx context.Context, taskID uint, op string, required constants.TaskStatus) error {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("task", taskID)
		}
		return err
	}
	return apperrors.Conflict(op, taskID, task.Status, required)
}

func (s *WorkflowService) loadTask(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task", taskID)
		}
		return nil, err
	}
	return task, nil
}
