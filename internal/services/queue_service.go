package services

import (
	"context"

	"labelforge.com/labelforge/internal/constants"
	apperrors "labelforge.com/labelforge/internal/errors"
	model "labelforge.com/labelforge/internal/models"
	repository "labelforge.com/labelforge/internal/repositories"
)

// QueueService computes the per-caller work views over tasks. Both queues
// are plain filtered reads; they are not linearized against concurrent
// workflow writes.
type QueueService struct {
	repo *repository.TaskRepository
}

func NewQueueService(repo *repository.TaskRepository) *QueueService {
	return &QueueService{repo: repo}
}

// AnnotatorQueue surfaces unclaimed tasks together with the caller's own
// in-progress work in one list, id ascending. datasetID 0 means no filter.
func (s *QueueService) AnnotatorQueue(ctx context.Context, caller model.Identity, datasetID uint) ([]model.Task, error) {
	return s.repo.AnnotatorQueue(ctx, caller.UserID, datasetID)
}

// ReviewQueue lists submitted tasks oldest first, FIFO review discipline.
func (s *QueueService) ReviewQueue(ctx context.Context, caller model.Identity, datasetID uint) ([]model.Task, error) {
	if !constants.CanReview(caller.Role) {
		return nil, apperrors.Permission("only reviewers or admins can access the review queue")
	}
	return s.repo.ReviewQueue(ctx, datasetID)
}
