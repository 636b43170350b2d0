package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"labelforge.com/labelforge/internal/constants"
	dto "labelforge.com/labelforge/internal/data_models"
	apperrors "labelforge.com/labelforge/internal/errors"
	model "labelforge.com/labelforge/internal/models"
	repository "labelforge.com/labelforge/internal/repositories"
)

// ProjectService covers the record management around the workflow: projects,
// datasets, and bulk task intake. Creation is admin-gated; reads are open to
// every authenticated caller.
type ProjectService struct {
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
}

func NewProjectService(projects *repository.ProjectRepository, tasks *repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, caller model.Identity, name, description string) (*model.Project, error) {
	if !constants.IsAdmin(caller.Role) {
		return nil, apperrors.Permission("only admins can create projects")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Validation("project name is required")
	}

	return s.projects.CreateProject(ctx, name, description, caller.UserID)
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projects.ListProjects(ctx)
}

func (s *ProjectService) ProjectDetail(ctx context.Context, id uint) (*dto.ProjectDetail, error) {
	project, err := s.projects.FindProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project", id)
		}
		return nil, err
	}

	datasets, err := s.projects.ListDatasets(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.ProjectDetail{
		Project:  *project,
		Datasets: datasets,
	}, nil
}

func (s *ProjectService) CreateDataset(ctx context.Context, caller model.Identity, projectID uint, name string, labels []string) (*model.Dataset, error) {
	if !constants.IsAdmin(caller.Role) {
		return nil, apperrors.Permission("only admins can create datasets")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Validation("dataset name is required")
	}

	if _, err := s.projects.FindProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project", projectID)
		}
		return nil, err
	}

	return s.projects.CreateDataset(ctx, projectID, name, labels)
}

func (s *ProjectService) DatasetDetail(ctx context.Context, id uint) (*dto.DatasetDetail, error) {
	dataset, err := s.loadDataset(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.tasks.CountByStatus(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &dto.DatasetDetail{Dataset: *dataset}
	detail.TaskCounts = dto.TaskCounts{
		Unclaimed:  counts[constants.StatusUnclaimed],
		InProgress: counts[constants.StatusInProgress],
		Submitted:  counts[constants.StatusSubmitted],
		Approved:   counts[constants.StatusApproved],
	}
	for _, n := range counts {
		detail.TaskCounts.Total += n
	}

	return detail, nil
}

func (s *ProjectService) ListDatasetTasks(ctx context.Context, datasetID uint) ([]model.Task, error) {
	if _, err := s.loadDataset(ctx, datasetID); err != nil {
		return nil, err
	}
	return s.tasks.ListByDataset(ctx, datasetID)
}

// BulkCreateTasks inserts a batch of unclaimed tasks into a dataset. Every
// item must carry text content; the batch is rejected whole otherwise.
func (s *ProjectService) BulkCreateTasks(ctx context.Context, caller model.Identity, datasetID uint, items []dto.BulkTaskItem) (int, error) {
	if !constants.IsAdmin(caller.Role) {
		return 0, apperrors.Permission("only admins can create tasks")
	}
	if len(items) == 0 {
		return 0, apperrors.Validation("at least one task is required")
	}

	texts := make([]string, 0, len(items))
	for _, item := range items {
		if item.TextContent == "" {
			return 0, apperrors.Validation("each task must have text_content")
		}
		texts = append(texts, item.TextContent)
	}

	if _, err := s.loadDataset(ctx, datasetID); err != nil {
		return 0, err
	}

	return s.tasks.BulkCreate(ctx, datasetID, texts)
}

func (s *ProjectService) loadDataset(ctx context.Context, id uint) (*model.Dataset, error) {
	dataset, err := s.projects.FindDatasetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("dataset", id)
		}
		return nil, err
	}
	return dataset, nil
}
