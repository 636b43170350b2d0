package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	model "labelforge.com/labelforge/internal/models"
)

// ProjectRepository covers the thin record management around projects and
// datasets. All workflow logic lives with tasks.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) CreateProject(ctx context.Context, name, description, createdBy string) (*model.Project, error) {
	project := &model.Project{
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepository) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) FindProjectByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) ListDatasets(ctx context.Context, projectID uint) ([]model.Dataset, error) {
	var datasets []model.Dataset
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Find(&datasets).Error
	return datasets, err
}

func (r *ProjectRepository) CreateDataset(ctx context.Context, projectID uint, name string, labels []string) (*model.Dataset, error) {
	dataset := &model.Dataset{
		ProjectID: projectID,
		Name:      name,
		Labels:    labels,
		CreatedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(dataset).Error; err != nil {
		return nil, err
	}
	return dataset, nil
}

func (r *ProjectRepository) FindDatasetByID(ctx context.Context, id uint) (*model.Dataset, error) {
	var dataset model.Dataset
	err := r.db.WithContext(ctx).First(&dataset, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}
